package main

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// setupLog routes logging to the file named by SAYS_LOGFILE, or discards
// it. Notifications, not logs, are the user-facing surface, so nothing is
// ever logged to stdout.
func setupLog() (func() error, error) {
	log.SetTimeFormat(time.RFC3339)

	if os.Getenv("SAYS_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	logFile := os.Getenv("SAYS_LOGFILE")
	if logFile == "" {
		log.SetOutput(io.Discard)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	return f.Close, nil
}
