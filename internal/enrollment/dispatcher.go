package enrollment

import (
	"context"
	"log/slog"
)

// CodeDispatcher delivers a verification code to a phone number. The
// production wiring logs instead of sending; tests substitute a
// deterministic fake.
type CodeDispatcher interface {
	Dispatch(ctx context.Context, phone, code string) error
}

// LoggerDispatcher is a stub dispatcher that writes the code to the
// structured logger.
type LoggerDispatcher struct {
	logger *slog.Logger
}

// NewLoggerDispatcher constructs a logging dispatcher stub.
func NewLoggerDispatcher(logger *slog.Logger) *LoggerDispatcher {
	return &LoggerDispatcher{logger: logger}
}

// Dispatch writes the issued code to the structured logger.
func (d *LoggerDispatcher) Dispatch(_ context.Context, phone, code string) error {
	if d == nil || d.logger == nil {
		return nil
	}
	d.logger.Info("verification code issued", "phone", phone, "code", code)
	return nil
}
