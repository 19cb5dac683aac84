package application

import "log/slog"

// ModuleName is the "module" attribute on every log line from this context.
const ModuleName = "community-governance/proposal-voting"

// ResolveLogger falls back to the process default so use cases built as
// zero values still log.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
