package handler

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger writing to out.
//
// Lambda should pass timestamps=false, since CloudWatch already adds a
// timestamp at the beginning of every log line emitted by the function.
func NewLogger(out io.Writer, level logrus.Level, timestamps bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !timestamps,
		FullTimestamp:    timestamps,
	})
	return logger
}
