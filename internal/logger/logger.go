package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *logrus.Logger

// InitLogger initializes the global logger with file rotation and appropriate levels
func InitLogger(logLevel string) error {
	Logger = logrus.New()

	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	// Rotated files, split by severity
	errorLogger := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "error.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	appLogger := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "bot.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	Logger.AddHook(&FileHook{
		ErrorWriter: errorLogger,
		AppWriter:   appLogger,
	})

	// Also output to console for development
	Logger.SetOutput(os.Stdout)

	return nil
}

// FileHook implements logrus.Hook to route errors to a dedicated file
type FileHook struct {
	ErrorWriter io.Writer
	AppWriter   io.Writer
}

func (hook *FileHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}

	switch entry.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		_, err = hook.ErrorWriter.Write([]byte(line))
	default:
		_, err = hook.AppWriter.Write([]byte(line))
	}

	return err
}

func (hook *FileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Convenience functions for structured logging
func Error(msg string, fields map[string]interface{}) {
	if Logger != nil {
		Logger.WithFields(fields).Error(msg)
	}
}

func Info(msg string, fields map[string]interface{}) {
	if Logger != nil {
		Logger.WithFields(fields).Info(msg)
	}
}

func Debug(msg string, fields map[string]interface{}) {
	if Logger != nil {
		Logger.WithFields(fields).Debug(msg)
	}
}

func Warn(msg string, fields map[string]interface{}) {
	if Logger != nil {
		Logger.WithFields(fields).Warn(msg)
	}
}

// Simple logging functions without fields
func ErrorMsg(msg string) { Error(msg, nil) }
func InfoMsg(msg string)  { Info(msg, nil) }
func DebugMsg(msg string) { Debug(msg, nil) }
func WarnMsg(msg string)  { Warn(msg, nil) }
