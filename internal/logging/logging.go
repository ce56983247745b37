// Package logging provides centralized debug logging for the slate engine.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger categories for different subsystems.
const (
	CategoryScan      = "SCAN"
	CategoryDeck      = "DECK"
	CategoryScheduler = "SCHEDULER"
	CategoryQueue     = "QUEUE"
	CategoryGeneral   = "GENERAL"
)

// DebugLogger provides centralized debug logging with file output.
//
//revive:disable-next-line:exported -- DebugLogger name follows singleton pattern
type DebugLogger struct {
	enabled   bool
	logFile   *os.File
	loggers   map[string]*log.Logger
	mu        sync.RWMutex
	startTime time.Time
}

var (
	instance *DebugLogger
	once     sync.Once
)

// GetInstance returns the singleton debug logger instance.
func GetInstance() *DebugLogger {
	once.Do(func() {
		instance = &DebugLogger{
			enabled:   false,
			loggers:   make(map[string]*log.Logger),
			startTime: time.Now(),
		}
	})
	return instance
}

// Initialize sets up debug logging to a file in the specified directory.
func (dl *DebugLogger) Initialize(configDir string) error {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	if dl.enabled {
		return nil
	}

	logPath := filepath.Join(configDir, "slate-debug.log")
	// #nosec G304 -- logPath is constructed from trusted configDir + literal filename
	file, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create debug log file %s: %w", logPath, err)
	}

	dl.logFile = file
	dl.enabled = true

	dl.createLogger(CategoryScan)
	dl.createLogger(CategoryDeck)
	dl.createLogger(CategoryScheduler)
	dl.createLogger(CategoryQueue)
	dl.createLogger(CategoryGeneral)

	dl.loggers[CategoryGeneral].Printf("Debug logging initialized at %s", logPath)
	dl.loggers[CategoryGeneral].Printf("Session started at %s", dl.startTime.Format(time.RFC3339))

	return nil
}

func (dl *DebugLogger) createLogger(category string) {
	if dl.logFile == nil {
		return
	}
	prefix := fmt.Sprintf("[%s] ", category)
	dl.loggers[category] = log.New(dl.logFile, prefix, log.LstdFlags|log.Lshortfile)
}

// IsEnabled returns whether debug logging is enabled.
func (dl *DebugLogger) IsEnabled() bool {
	dl.mu.RLock()
	defer dl.mu.RUnlock()
	return dl.enabled
}

// Printf logs a formatted message for the specified category.
func (dl *DebugLogger) Printf(category, format string, args ...interface{}) {
	dl.mu.RLock()
	defer dl.mu.RUnlock()

	if !dl.enabled {
		return
	}

	logger, exists := dl.loggers[category]
	if !exists {
		logger = dl.loggers[CategoryGeneral]
	}
	if logger != nil {
		logger.Printf(format, args...)
	}
}

// Close closes the debug log file.
func (dl *DebugLogger) Close() error {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	if dl.logFile != nil {
		if dl.enabled {
			dl.loggers[CategoryGeneral].Printf("Debug logging session ended at %s", time.Now().Format(time.RFC3339))
			dl.loggers[CategoryGeneral].Printf("Session duration: %v", time.Since(dl.startTime))
		}

		err := dl.logFile.Close()
		dl.logFile = nil
		dl.enabled = false
		dl.loggers = make(map[string]*log.Logger)
		return err
	}
	return nil
}

// SetOutput sets the output destination for debug logging (for testing).
func (dl *DebugLogger) SetOutput(w io.Writer) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	if dl.enabled {
		for _, logger := range dl.loggers {
			logger.SetOutput(w)
		}
	}
}

// Scan logs messages related to workspace scanning.
func Scan(format string, args ...interface{}) {
	GetInstance().Printf(CategoryScan, format, args...)
}

// Deck logs messages related to deck read/write operations.
func Deck(format string, args ...interface{}) {
	GetInstance().Printf(CategoryDeck, format, args...)
}

// Scheduler logs messages related to scheduling computations.
func Scheduler(format string, args ...interface{}) {
	GetInstance().Printf(CategoryScheduler, format, args...)
}

// Queue logs messages related to queue building.
func Queue(format string, args ...interface{}) {
	GetInstance().Printf(CategoryQueue, format, args...)
}

// General logs general debug messages.
func General(format string, args ...interface{}) {
	GetInstance().Printf(CategoryGeneral, format, args...)
}
