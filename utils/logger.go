package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(level)
	return l
}

func InitLogger() {
	InfoLogger = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
}

// SetLogLevel adjusts the info logger. The error logger never drops below error.
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	InfoLogger.SetLevel(lvl)
	if lvl > logrus.ErrorLevel {
		ErrorLogger.SetLevel(lvl)
	}
	return nil
}
