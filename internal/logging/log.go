// Package logging sets up the shared logrus logger used by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/sirupsen/logrus"
)

var base = &logrus.Logger{
	Out: os.Stderr,
	Formatter: &CustomTextFormatter{
		logrus.TextFormatter{
			FullTimestamp: true,
		},
	},
	Hooks:        make(logrus.LevelHooks),
	Level:        logrus.WarnLevel,
	ReportCaller: true,
}

// NamedLogger creates a named package logger.
func NamedLogger(name string) *logrus.Entry {
	return base.WithField("component", name)
}

// SetLevel parses a level name (panic, fatal, error, warn, info, debug, trace)
// and applies it to every named logger.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	base.SetLevel(lvl)
	return nil
}

// SetOutput redirects every named logger
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// CustomTextFormatter prefixes each message with the calling file and line
type CustomTextFormatter struct {
	logrus.TextFormatter
}

// Format renders a single log entry
func (f *CustomTextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry.HasCaller() {
		entry.Message = fmt.Sprintf("[%-15s:%03d]%s", path.Base(entry.Caller.File), entry.Caller.Line, entry.Message)
		// the prefix replaces logrus' own func/file fields
		caller := entry.Caller
		entry.Caller = nil
		defer func() { entry.Caller = caller }()
	}
	return f.TextFormatter.Format(entry)
}
