package entryservice

import (
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// leveledLogger routes retryablehttp diagnostics to zap.
type leveledLogger struct {
	s *zap.SugaredLogger
}

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)

func newLeveledLogger(l *zap.Logger) *leveledLogger {
	return &leveledLogger{s: l.Named("entryservice.http").Sugar()}
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}
