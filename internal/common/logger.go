package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

const (
	logTimeFormat   = "15:04:05"
	logFileName     = "sticker.log"
	logFileMaxSize  = 100 * 1024 * 1024
	logFileBackups  = 3
	defaultLogLevel = "info"
)

var (
	globalLogger arbor.ILogger
	loggerMutex  sync.RWMutex
)

// GetLogger returns the logger built by InitLogger, or a console logger before that.
func GetLogger() arbor.ILogger {
	loggerMutex.RLock()
	defer loggerMutex.RUnlock()
	if globalLogger != nil {
		return globalLogger
	}
	return arbor.NewLogger().WithConsoleWriter(writerConfig(""))
}

// InitLogger builds the process logger from config.Logging and stores it globally.
// Outputs are "stdout" (or "console") and "file". File logs go to Logging.Dir, or a
// logs directory beside the executable when Dir is empty.
func InitLogger(config *Config) arbor.ILogger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	logger := arbor.NewLogger()
	console, file := logOutputs(config.Logging.Output)

	if file {
		if dir, err := logDir(config.Logging.Dir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
			console = true
		} else {
			logger = logger.WithFileWriter(writerConfig(filepath.Join(dir, logFileName)))
		}
	}
	if console || !file {
		logger = logger.WithConsoleWriter(writerConfig(""))
	}

	level := strings.ToLower(strings.TrimSpace(config.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	logger = logger.WithLevelFromString(level)

	globalLogger = logger
	return logger
}

func logOutputs(outputs []string) (console, file bool) {
	for _, o := range outputs {
		switch strings.ToLower(strings.TrimSpace(o)) {
		case "stdout", "console":
			console = true
		case "file":
			file = true
		}
	}
	return console, file
}

func logDir(configured string) (string, error) {
	dir := configured
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(filepath.Dir(exe), "logs")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// writerConfig describes a console writer, or a rotating file writer when fileName
// is set.
func writerConfig(fileName string) models.WriterConfiguration {
	if fileName == "" {
		return models.WriterConfiguration{
			Type:       models.LogWriterTypeConsole,
			TimeFormat: logTimeFormat,
			TextOutput: true,
		}
	}
	return models.WriterConfiguration{
		Type:       models.LogWriterTypeFile,
		FileName:   fileName,
		TimeFormat: logTimeFormat,
		MaxSize:    logFileMaxSize,
		MaxBackups: logFileBackups,
		TextOutput: true,
	}
}

// GetLogFilePath returns the file the logger writes to, or "" without file output.
func GetLogFilePath(logger arbor.ILogger) string {
	if logger == nil {
		return ""
	}
	return logger.GetLogFilePath()
}
