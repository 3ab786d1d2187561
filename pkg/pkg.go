//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the ajscript module embedded at build
// time. It is printed by the CLI when users pass --version.
//
//go:embed VERSION
var version string

// Version returns the embedded version string without surrounding space.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command identifier used across the project.
	// It appears in help text, default config paths, and environment
	// variable prefixes.
	Name = "ajs"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "AjScript interpreter"
	// Extension is the file extension of script sources.
	Extension = ".ajs"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
