package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_StdoutOnly(t *testing.T) {
	t.Setenv("LOG_FILE_DISABLED", "true")
	t.Setenv("LOG_LEVEL", "DEBUG")

	logger := NewLogger("privacyguard")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.Equal(t, os.Stdout, logger.Out)
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestAsyncFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	w, err := NewAsyncFileWriter(path, 1024)
	require.NoError(t, err)

	n, err := w.Write([]byte("first\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	_, _ = w.Write([]byte("second\n"))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestConsoleHook(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.AddHook(NewConsoleHook(&buf))

	logger.WithField("detector", "ner").Warn("detector failed")
	assert.Contains(t, buf.String(), `"detector":"ner"`)
	assert.Contains(t, buf.String(), "detector failed")
}

func TestClose(t *testing.T) {
	stdoutLogger := logrus.New()
	stdoutLogger.SetOutput(os.Stdout)
	assert.NoError(t, Close(stdoutLogger))

	path := filepath.Join(t.TempDir(), "close.log")
	w, err := NewAsyncFileWriter(path, 4)
	require.NoError(t, err)
	fileLogger := logrus.New()
	fileLogger.SetOutput(w)
	fileLogger.Info("bye")
	require.NoError(t, Close(fileLogger))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bye")
}
