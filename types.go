package sqlidentity

import "fmt"

// Logger is the minimal logging surface the package depends on. Inject your
// own via Config or the repository options; defLogger prints to stdout.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// HeaderWriter is the response surface Identity.Write needs to stamp the
// session token on an outgoing response. Both *fiber.Ctx and http.Header
// satisfy it.
type HeaderWriter interface {
	Set(key, value string)
}

// StructuredLogger is the slog-style surface go-logger/glog loggers expose.
type StructuredLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// FromStructuredLogger bridges a structured logger to the printf Logger this
// package takes. Format strings render before they cross, so printf verbs are
// never mistaken for key-value pairs. A nil logger falls back to defLogger.
func FromStructuredLogger(l StructuredLogger) Logger {
	if l == nil {
		return defLogger{}
	}
	return structuredLogger{logger: l}
}

type structuredLogger struct {
	logger StructuredLogger
}

func (s structuredLogger) Debug(format string, args ...any) {
	s.logger.Debug(fmt.Sprintf(format, args...))
}

func (s structuredLogger) Info(format string, args ...any) {
	s.logger.Info(fmt.Sprintf(format, args...))
}

func (s structuredLogger) Warn(format string, args ...any) {
	s.logger.Warn(fmt.Sprintf(format, args...))
}

func (s structuredLogger) Error(format string, args ...any) {
	s.logger.Error(fmt.Sprintf(format, args...))
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
