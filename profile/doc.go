// Package profile provides optional runtime profiling of the ajs
// interpreter.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without the tag, [Modes] is empty and [Settings.Start]
// returns a no-op.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     block (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap memory profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace profiling
//
// # Usage
//
//	p := profile.Settings{Mode: "cpu", Dir: "/tmp/profiles"}.Start()
//	defer p.Stop()
//
// The ajs command exposes the same settings as flags when built with the
// tag:
//
//	go build -tags pprof -o ajs .
//	ajs --pprof-mode cpu run bench.ajs
//	go tool pprof ajs ~/.cache/ajs/pprof/cpu.pprof
//
// The default output directory is the "pprof" directory below the user
// cache directory.
//
// Building with the tag also imports [net/http/pprof], which registers its
// handlers on [net/http.DefaultServeMux] for programs embedding the
// interpreter behind an HTTP server.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
