package registration

import (
	"fmt"
	"time"
)

// Logger is the minimal logging surface this package needs. The
// go-logger/glog loggers satisfy it; so does anything slog shaped.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds registration options. Implementations are expected to be
// immutable after startup; the signing key must never be logged.
type Config interface {
	GetRegistrationEnabled() bool
	GetPasswordMinLength() int
	GetSigningKey() string
	GetVerificationTokenTTL() time.Duration
	GetIssuer() string
	GetAppURL() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] REG "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] REG "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] REG "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] REG "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
