package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a text logger at the named level ("debug", "info", "warn" ...),
// writing to out or stderr when out is nil.
func NewLogger(level string, out io.Writer) (logger *logrus.Logger, err error) {
	var lvl logrus.Level
	if level == "" {
		level = "info"
	}
	if lvl, err = logrus.ParseLevel(level); err != nil {
		return
	}
	if out == nil {
		out = os.Stderr
	}
	logger = logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return
}
