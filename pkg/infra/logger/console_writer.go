package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// ConsoleHook mirrors every entry to a second writer, stdout in practice.
type ConsoleHook struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleHook(out io.Writer) *ConsoleHook {
	return &ConsoleHook{out: out}
}

func (h *ConsoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.out.Write(line)
	return err
}

func (h *ConsoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
