package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the JSON logger. An empty level falls back to LOG_LEVEL.
func New(level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})

	if strings.TrimSpace(level) == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	l.SetLevel(ParseLevel(level))
	return l
}

func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
