//go:build pprof

package profile

import "github.com/pkg/profile"

// options translates s into arguments for [profile.Start]. The caller has
// already checked that s.Mode is supported.
func options(s Settings) []func(*profile.Profile) {
	opts := []func(*profile.Profile){modes[s.Mode], profile.NoShutdownHook}

	if s.Dir != "" {
		opts = append(opts, profile.ProfilePath(s.Dir))
	}

	if s.Quiet {
		opts = append(opts, profile.Quiet)
	}

	return opts
}
