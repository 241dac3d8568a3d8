// Package cli contains the command line interface for tmplvars.
//
// # Usage
//
//	tmplvars [flags] <command> [args]
//
// Without a command, the arguments are template sources for vars:
//
//	tmplvars --defaults app.conf.tmpl
//	tmplvars --variant=confd vars --format=yaml a.tmpl b.tmpl
//	tmplvars render --env=prod.yaml --set region=us-east-1 app.conf.tmpl
//	tmplvars repl --env=dev.yaml
//
// # Configuration
//
// Flag defaults are read from the "config" mapping of a YAML document at
// [pkg.ConfigDir]/config, and from [pkg.ConfigDir]/config.json. The init
// command writes the former from the current flag values:
//
//	config:
//	  log-level: debug
//	  variant: confd
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text and indent JSON output
//
// # Profiling Options
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     [pkg.CacheDir]/pprof)
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
package cli
