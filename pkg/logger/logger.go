package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the process-wide logger. Nil until Init is called.
	Logger *logrus.Logger
	// currentLogFile is the file being written, empty for console only.
	currentLogFile string
	logMu          sync.Mutex
)

// Config controls log level and optional rotating file output.
type Config struct {
	Level      string // debug, info, warn, error
	OutputFile string // empty means console only
	MaxSize    int    // MB per file before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
	// Console is where console output goes. Defaults to os.Stdout.
	Console io.Writer
}

// Init builds the global logger.
func Init(config Config) error {
	logMu.Lock()
	defer logMu.Unlock()

	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "06-01-02 15:04:05",
	})

	console := config.Console
	if console == nil {
		console = os.Stdout
	}
	writers := []io.Writer{console}

	currentLogFile = ""
	if config.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputFile), 0755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.OutputFile,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
		currentLogFile = config.OutputFile
	}

	logger.SetOutput(io.MultiWriter(writers...))

	Logger = logger
	return nil
}

// current returns the global logger, or the logrus standard logger if Init
// has not run.
func current() *logrus.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	if Logger != nil {
		return Logger
	}
	return logrus.StandardLogger()
}

// WithField returns an entry on the global logger.
func WithField(key string, value interface{}) *logrus.Entry {
	return current().WithField(key, value)
}

// WithFields is WithField for several fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return current().WithFields(fields)
}

// Component tags entries with the emitting component.
func Component(name string) *logrus.Entry {
	return WithField("component", name)
}

// GetCurrentLogFile returns the active log file path.
func GetCurrentLogFile() string {
	logMu.Lock()
	defer logMu.Unlock()
	return currentLogFile
}
