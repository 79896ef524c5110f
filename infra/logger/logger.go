package logger

import corelogger "github.com/kilianp07/failpredict/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards every message.
type NopLogger = corelogger.Nop

// New returns a Logger for the given component. Output format and level are
// taken from the APP_ENV and LOG_LEVEL environment variables.
func New(component string) Logger {
	return NewZerologLogger(component)
}
