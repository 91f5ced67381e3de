package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetupLogger configures logrus to write to stdout and a dated file under logDir
func SetupLogger(logDir string) error {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := filepath.Join(logDir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(logrus.InfoLevel)

	return nil
}

// SetLoggerOutput redirects log output and returns the previous writer
func SetLoggerOutput(w io.Writer) io.Writer {
	prev := log.Out
	log.SetOutput(w)
	return prev
}

// Info logs an info level message
func Info(format string, v ...interface{}) {
	log.Infof(format, v...)
}

// Warning logs a warning level message
func Warning(format string, v ...interface{}) {
	log.Warnf(format, v...)
}

// Error logs an error level message
func Error(format string, v ...interface{}) {
	log.Errorf(format, v...)
}
