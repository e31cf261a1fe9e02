package errors

import (
	"context"
	"log/slog"
)

// Report logs an advisory diagnostic at warn level. The registered detail is
// attached so a log line is self-explanatory. A nil logger uses
// slog.Default(). Extra args are appended as slog key/value pairs.
func Report(logger *slog.Logger, code, op string, args ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	e := New(code).WithOp(op)
	if t, ok := registry[code]; ok {
		e.Detail = t.Detail
	}
	logger.Log(context.Background(), slog.LevelWarn, e.Message, append([]any{slog.Any("diagnostic", e)}, args...)...)
}
