// Package profile starts optional runtime profiling with [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag ([Tag]). Without
// it, [Config.Start] always returns a no-op and [Modes] is empty.
//
//	stop := profile.New(
//		profile.WithMode("cpu"),
//		profile.WithPath("/tmp/tmplvars"),
//	).Start()
//	defer stop.Stop()
//
// Profiles are written as <mode>.pprof under the configured path and can be
// inspected with "go tool pprof -http=: <file>". Builds with the tag also
// register the net/http/pprof handlers on the default mux.
//
// Supported modes: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread and trace.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
