package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// maxLogSize is the maximum log file size before rotation (5 MB).
	maxLogSize = 5 * 1024 * 1024
	// maxLogBackups is the number of rotated log files to keep.
	maxLogBackups = 3
)

// InitLogger initializes a structured logger writing JSON lines to
// $XDG_STATE_HOME/<appName>/<appName>.log, using the platform default for the
// state directory when the variable is unset.
//
// When debug is true, the logger uses DEBUG level and includes source locations.
// Otherwise, it uses INFO level without source information.
func InitLogger(appName string, debug bool) (*slog.Logger, error) {
	logPath, err := getLogFilePath(appName)
	if err != nil {
		return nil, fmt.Errorf("failed to get log file path: %w", err)
	}

	// Create log directory if it doesn't exist
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	// Rotate log file if it exceeds the size limit
	if err := rotateIfNeeded(logPath); err != nil {
		return nil, fmt.Errorf("failed to rotate log file: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level:     levelFor(debug),
		AddSource: debug,
	})

	return slog.New(handler), nil
}

// NewConsoleLogger returns a human-readable logger for command line use.
func NewConsoleLogger(w io.Writer, debug bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelFor(debug),
	}))
}

func levelFor(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// rotateIfNeeded checks the log file size and rotates if it exceeds maxLogSize.
// Rotation renames current.log → current.log.1, .1 → .2, etc., keeping maxLogBackups.
func rotateIfNeeded(logPath string) error {
	info, err := os.Stat(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Nothing to rotate
		}
		return err
	}

	if info.Size() < maxLogSize {
		return nil
	}

	// Shift existing backups: .3 is deleted, .2→.3, .1→.2
	for i := maxLogBackups; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", logPath, i)
		dst := fmt.Sprintf("%s.%d", logPath, i+1)
		if i == maxLogBackups {
			os.Remove(src)
		} else {
			os.Rename(src, dst)
		}
	}

	if err := os.Rename(logPath, logPath+".1"); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}

	return nil
}

// getLogFilePath returns the log file path under the XDG state directory.
func getLogFilePath(appName string) (string, error) {
	if appName == "" {
		return "", fmt.Errorf("app name must not be empty")
	}
	if xdg.StateHome == "" {
		return "", fmt.Errorf("no state directory available")
	}
	return filepath.Join(xdg.StateHome, appName, appName+".log"), nil
}

// NewNopLogger returns a no-op logger for testing.
func NewNopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1, // Higher than any log level, effectively disabling all logs
	}))
}
