// Package log is a small structured logging layer over [log/slog].
//
// A [Logger] is built from functional options and is immutable: [Logger.Wrap]
// and [Logger.With] return new loggers. The zero [Logger] discards everything,
// which lets library packages accept a Logger without requiring one.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText))
//	logger.Debug("template parsed", slog.Int("nodes", 12))
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-node walker events.
// Levels parse case-insensitively with [ParseLevel].
//
// # Formats
//
// [FormatJSON] (default) and [FormatText]. With [WithPretty], text output is
// colorized with lipgloss styles and JSON output is indented.
//
// # Default logger
//
// Package-level functions ([Info], [DebugContext], ...) write through a
// process-wide default logger that [Config] reconfigures atomically.
package log
