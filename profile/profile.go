package profile

import "slices"

// Settings selects what the interpreter profiles and where the data is
// written. The zero value profiles nothing.
type Settings struct {
	Mode  string // one of [Modes]
	Dir   string // output directory, or the working directory when empty
	Quiet bool   // suppress the profiler's own log lines
}

// Profiler is a running profile. Stop flushes its data and may be called
// more than once.
type Profiler interface{ Stop() }

// Start begins profiling per s. Without the pprof build tag, or when
// s.Mode is not one of [Modes], it returns a Profiler that does nothing.
func (s Settings) Start() Profiler {
	if !Supported(s.Mode) {
		return ignore{}
	}

	return start(s)
}

// Supported reports whether mode is one of [Modes].
func Supported(mode string) bool {
	return mode != "" && slices.Contains(Modes(), mode)
}

type ignore struct{}

func (ignore) Stop() {}
