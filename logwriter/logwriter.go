// Package logwriter wraps a io.Writer for dinephil logging.
//
package logwriter // "github.com/nickng/dinephil/logwriter"

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Writer is a log writer and its configurations.
type Writer struct {
	io.Writer

	LogFile       string
	EnableLogging bool
	EnableColour  bool
	Cleanup       func()
}

// NewFile creates a new file writer. An empty logfile means stderr, so that
// standard output carries only the dinner itself.
func NewFile(logfile string, enableLogging, enableColour bool) *Writer {
	return &Writer{
		LogFile:       logfile,
		EnableLogging: enableLogging,
		EnableColour:  enableColour,
	}
}

// New creates a new log writer.
func New(w io.Writer, enableLogging, enableColour bool) *Writer {
	return &Writer{
		Writer:        w,
		EnableLogging: enableLogging,
		EnableColour:  enableColour,
	}
}

// Create initialises a new writer.
func (w *Writer) Create() error {
	color.NoColor = !w.EnableColour
	w.Cleanup = func() {}
	if !w.EnableLogging {
		w.Writer = io.Discard
		return nil
	}
	if w.Writer != nil {
		return nil
	}
	if w.LogFile == "" {
		w.Writer = os.Stderr
		return nil
	}
	f, err := os.Create(w.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	bufWriter := bufio.NewWriter(f)
	w.Writer = Synced(bufWriter)
	w.Cleanup = func() {
		if err := bufWriter.Flush(); err != nil {
			log.Printf("flush: %s", err)
		}
		if err := f.Close(); err != nil {
			log.Printf("close: %s", err)
		}
	}
	return nil
}

// Logger returns a logger writing to w with the given prefix.
func (w *Writer) Logger(prefix string) *log.Logger {
	return log.New(w, prefix, log.Ltime|log.Lmicroseconds)
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// Synced serialises writes to w so that lines written by concurrent
// philosophers are never interleaved mid-line.
func Synced(w io.Writer) io.Writer {
	if s, ok := w.(*syncWriter); ok {
		return s
	}
	return &syncWriter{w: w}
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
