// Package logging configures the process-wide charmbracelet logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/cpf-explainer/pkg/config"
)

var logFile *os.File

/*
Init sets the default logger's level and formatter. When cfg.File is set,
output goes to stderr and is appended to that file.
*/
func Init(cfg config.Log) error {
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))

	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var out io.Writer = os.Stderr

	if cfg.File != "" {
		logFile, err = os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)

		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}

		out = io.MultiWriter(os.Stderr, logFile)
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Formatter:       Formatter(cfg.Format),
	})

	log.SetDefault(logger)
	log.Debug("logging initialized", "level", level, "file", cfg.File)

	return nil
}

/*
Formatter maps a config name onto a charmbracelet formatter, defaulting to text.
*/
func Formatter(name string) log.Formatter {
	switch strings.ToLower(name) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	}

	return log.TextFormatter
}

// Close closes the log file, if one was opened.
func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
