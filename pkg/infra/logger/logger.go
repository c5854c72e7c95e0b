package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const logDir = "logs"

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// NewLogger returns a JSON logger. Entries go to logs/<serviceName>.log
// through an async writer and are echoed on stdout, unless
// LOG_FILE_DISABLED=true in which case stdout is the only output.
func NewLogger(serviceName string) *logrus.Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})

	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if strings.EqualFold(os.Getenv("LOG_FILE_DISABLED"), "true") {
		logger.SetOutput(os.Stdout)
		return logger
	}

	name := unsafeName.ReplaceAllString(serviceName, "_")
	if name == "" {
		name = "privacyguard"
	}
	logFile := filepath.Join(logDir, name+".log")

	if err := os.MkdirAll(logDir, 0750); err != nil {
		log.Fatalf("Failed to create logs directory: %v", err)
	}
	asyncWriter, err := NewAsyncFileWriter(logFile, 32*1024)
	if err != nil {
		log.Fatalf("Failed to initialize async log writer: %v", err)
	}

	logger.SetOutput(asyncWriter)
	logger.AddHook(NewConsoleHook(os.Stdout))

	return logger
}

// Close flushes and closes the file writer installed by NewLogger, if any.
func Close(logger *logrus.Logger) error {
	if closer, ok := logger.Out.(io.Closer); ok && logger.Out != os.Stdout {
		return closer.Close()
	}
	return nil
}
