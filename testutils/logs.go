package testutils

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

type Logs struct {
	Builder strings.Builder
}

func NewLogs() (*Logs, *logrus.Logger) {
	logs := &Logs{}
	return logs, logs.NewLogger()
}

// NewLogger returns a logger writing unstyled, timestamp free lines to tl.
func (tl *Logs) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&tl.Builder)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	return logger
}

func (tl *Logs) AssertContains(t *testing.T, message string) {
	t.Helper()
	assert.Assert(t, is.Contains(tl.Builder.String(), message))
}

func (tl *Logs) AssertEmpty(t *testing.T) {
	t.Helper()
	assert.Equal(t, "", tl.Builder.String())
}

func (tl *Logs) Logs() string {
	return tl.Builder.String()
}

func (tl *Logs) Reset() {
	tl.Builder.Reset()
}
