package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/chizen/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("debug"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("ERROR"))
	assert.Equal(t, logrus.FatalLevel, GetLevel("fatal"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(" info "))
	assert.Equal(t, logrus.TraceLevel, GetLevel("trace"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, GetLevel("whatever"))
}

func TestNewOutput(t *testing.T) {
	assert.Equal(t, os.Stdout, newOutput(LoggerSetupParams{}))

	logFile := filepath.Join(t.TempDir(), "chizen")
	out := newOutput(LoggerSetupParams{LogFileName: logFile})
	lj, ok := out.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, logFile+".log", lj.Filename)

	out = newOutput(LoggerSetupParams{LogFileName: logFile + ".log", LogToStdout: true})
	cw, ok := out.(*pkg.CombinedWriter)
	require.True(t, ok)
	assert.Len(t, cw.Writers, 2)
}

func TestSentryEvent(t *testing.T) {
	now := time.Now()
	entry := &logrus.Entry{
		Level:   logrus.ErrorLevel,
		Message: "execute routine generate",
		Time:    now,
		Data: logrus.Fields{
			"attempts":      3,
			logrus.ErrorKey: errors.New("connection refused"),
		},
	}

	event := newSentryEvent(entry)
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "execute routine generate", event.Message)
	assert.Equal(t, now, event.Timestamp)
	assert.Equal(t, "3", event.Extra["attempts"])
	assert.Equal(t, "connection refused", event.Extra[logrus.ErrorKey])
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.FatalLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(logrus.WarnLevel))
	assert.Equal(t, sentry.LevelInfo, sentryLevel(logrus.InfoLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))

	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())
}
