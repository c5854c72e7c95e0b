package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const flushInterval = 2 * time.Second

// AsyncFileWriter queues log lines and writes them from a single goroutine.
// When the queue is full lines are dropped rather than blocking the caller.
type AsyncFileWriter struct {
	writer  *bufio.Writer
	file    *os.File
	logChan chan []byte
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

func NewAsyncFileWriter(logFile string, bufferSize int) (*AsyncFileWriter, error) {
	file, err := os.OpenFile(filepath.Clean(logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	aw := &AsyncFileWriter{
		writer:  bufio.NewWriterSize(file, bufferSize),
		file:    file,
		logChan: make(chan []byte, 1000),
		done:    make(chan struct{}),
	}
	aw.wg.Add(1)
	go aw.processLogs()

	return aw, nil
}

func (aw *AsyncFileWriter) Write(p []byte) (int, error) {
	select {
	case aw.logChan <- append([]byte(nil), p...):
	default:
	}
	return len(p), nil
}

func (aw *AsyncFileWriter) processLogs() {
	defer aw.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case line := <-aw.logChan:
			if _, err := aw.writer.Write(line); err != nil {
				fmt.Fprintln(os.Stderr, "error writing log data to file", err)
			}
		case <-ticker.C:
			_ = aw.writer.Flush()
		case <-aw.done:
			for {
				select {
				case line := <-aw.logChan:
					_, _ = aw.writer.Write(line)
				default:
					_ = aw.writer.Flush()
					return
				}
			}
		}
	}
}

// Close drains pending lines, flushes and closes the file.
func (aw *AsyncFileWriter) Close() error {
	var err error
	aw.once.Do(func() {
		close(aw.done)
		aw.wg.Wait()
		err = aw.file.Close()
	})
	return err
}
