package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/lang/runtime"
)

type initTestCLI struct {
	LogLevel string   `default:"info" name:"log-level"`
	Pretty   bool     `default:"true"`
	Depth    int      `default:"5"`
	Ratio    float64  `default:"0.5"`
	Tags     []string `default:"a,b"`
	Empty    string
	Secret   string `default:"x" hidden:""`
	Init     Init   `cmd:""`
}

func newInitContext(t *testing.T, base string, args ...string) *kong.Context {
	t.Helper()

	var cli initTestCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: base})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

// decodeConfig reads a generated configuration file back into plain data.
func decodeConfig(t *testing.T, format string, data []byte) map[string]any {
	t.Helper()

	var values map[string]any

	switch format {
	case "json":
		if err := json.Unmarshal(data, &values); err != nil {
			t.Fatalf("json.Unmarshal() error = %v\n%s", err, data)
		}

	case "toml":
		if _, err := toml.Decode(string(data), &values); err != nil {
			t.Fatalf("toml.Decode() error = %v\n%s", err, data)
		}

	default:
		session, err := lang.NewSession(t.Context())
		if err != nil {
			t.Fatal(err)
		}

		if _, err := session.Exec(t.Context(), string(data)); err != nil {
			t.Fatalf("Exec() error = %v\n%s", err, data)
		}

		v, ok := session.Value(ConfigVariable)
		if !ok {
			t.Fatalf("%s undefined in\n%s", ConfigVariable, data)
		}

		values, _ = runtime.ToNative(v).(map[string]any)
	}

	return values
}

// TestInitRun tests the Init.Run command.
func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_ajs", format: "ajs"},
		{name: "create_toml", format: "toml"},
		{name: "create_json", format: "json"},
		{name: "overwrite_with_force", format: "ajs", force: true, exists: true},
		{name: "fail_without_force", format: "toml", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			base := filepath.Join(t.TempDir(), "config")
			path := base + "." + tt.format

			if tt.exists {
				if err := os.WriteFile(path, []byte("existing content"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			ktx := newInitContext(t, base, "--depth=7")
			ctx := WithContext(t.Context(), ktx)

			err := (&Init{Force: tt.force, Format: tt.format}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}

			if tt.wantErr != nil {
				if string(data) != "existing content" {
					t.Errorf("existing file modified: %q", data)
				}

				return
			}

			values := decodeConfig(t, tt.format, data)

			if got := values["log_level"]; got != "info" {
				t.Errorf("log_level = %v, want info", got)
			}

			if got := values["pretty"]; got != true {
				t.Errorf("pretty = %v, want true", got)
			}

			if got := values["depth"]; got == nil || strings.TrimSuffix(toString(got), ".0") != "7" {
				t.Errorf("depth = %v, want 7", got)
			}

			for _, omitted := range []string{"empty", "secret", "help", "force", "format"} {
				if _, ok := values[omitted]; ok {
					t.Errorf("%s written to configuration", omitted)
				}
			}
		})
	}
}

func toString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	default:
		b, _ := json.Marshal(v)

		return string(b)
	}
}

// TestConfigValue tests conversion of flag values to configuration data.
func TestConfigValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "null"},
		{"bool", true, "true"},
		{"string", "text", `"text"`},
		{"empty_string", "", "null"},
		{"int", 42, "42"},
		{"uint", uint8(7), "7"},
		{"float", 2.5, "2.5"},
		{"slice", []string{"a", "", "b"}, `["a","b"]`},
		{"empty_slice", []int{}, "null"},
		{"stringer", stringer("name=1"), `"name=1"`},
		{"named_string", namedString("v"), `"v"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := json.Marshal(configValue(tt.value))
			if err != nil {
				t.Fatal(err)
			}

			if string(got) != tt.want {
				t.Errorf("configValue(%v) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

type stringer string

func (s stringer) String() string { return string(s) }

type namedString string

// TestConfigProgramFormat tests that the script format declares a single
// variable with sorted keys.
func TestConfigProgramFormat(t *testing.T) {
	t.Parallel()

	var sb strings.Builder

	values := map[string]any{"b": 2, "a": "x", "c": []any{true, 1.5}}

	if err := writeConfig(t.Context(), &sb, "ajs", values); err != nil {
		t.Fatal(err)
	}

	got := sb.String()

	if !strings.HasPrefix(got, "var "+ConfigVariable+" = ") {
		t.Errorf("config source does not declare %s:\n%s", ConfigVariable, got)
	}

	a, b, c := strings.Index(got, "a:"), strings.Index(got, "b:"), strings.Index(got, "c:")
	if a < 0 || !(a < b && b < c) {
		t.Errorf("keys not sorted:\n%s", got)
	}
}
