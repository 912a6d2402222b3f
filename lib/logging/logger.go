package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

// Packages lists the logger names used inside hKV. Init configures all of them.
var Packages = []string{"tree", "flat", "container", "codec", "query", "eval", "registry", "patch", "cli"}

var (
	outputMu sync.Mutex
	output   io.Writer = os.Stderr
)

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// hKVLogger implements the ILogger interface with custom formatting
type hKVLogger struct {
	name   string
	level  logger.LogLevel
	logger *log.Logger
}

func (l *hKVLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *hKVLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *hKVLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.log("INFO", format, args...)
	}
}

func (l *hKVLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *hKVLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.log("ERROR", format, args...)
	}
}

func (l *hKVLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

func (l *hKVLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-10s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger is the logger factory registered with dragonboat. New loggers start at WARNING
// so library users see nothing unless they opt in via Init.
func CreateLogger(pkgName string) logger.ILogger {
	outputMu.Lock()
	w := output
	outputMu.Unlock()

	return &hKVLogger{
		name:   pkgName,
		level:  logger.WARNING,
		logger: log.New(w, "", log.Ldate|log.Ltime),
	}
}

// GetLogger returns the logger registered under name.
func GetLogger(name string) logger.ILogger {
	return logger.GetLogger(name)
}

// SetOutput changes where loggers created afterward write to. Must be called before Init.
func SetOutput(w io.Writer) {
	outputMu.Lock()
	defer outputMu.Unlock()
	output = w
}

func init() {
	logger.SetLoggerFactory(CreateLogger)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// Init sets the level of all hKV loggers.
func Init(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	for _, name := range Packages {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
