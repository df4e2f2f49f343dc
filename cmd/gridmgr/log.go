package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// openLogFile opens path for appending and marks the start of this run with
// a timestamp and the command line.
func openLogFile(path string, args []string, now time.Time) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "--- %s ---\n%s\n", now.Format(time.RFC3339), strings.Join(args, " ")); err != nil {
		f.Close()
		return nil, fmt.Errorf("write log header: %w", err)
	}
	return f, nil
}
