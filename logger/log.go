package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

// Init initializes the global logger.
func Init() {
	env := os.Getenv("ENV")
	var err error
	var l *zap.Logger
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Logger = l
}

// Close flushes the logger buffers (important for production to avoid losing log entries)
func Close() {
	if err := Logger.Sync(); err != nil {
		log.Printf("failed to flush log entries: %v", err)
	}
}

// Global logging methods to avoid `logger.Logger` repetition

func Info(msg string, fields ...zapcore.Field) {
	get().Info(msg, fields...)
}

func Warn(msg string, fields ...zapcore.Field) {
	get().Warn(msg, fields...)
}

func Error(msg string, fields ...zapcore.Field) {
	get().Error(msg, fields...)
}

func Fatal(msg string, fields ...zapcore.Field) {
	get().Fatal(msg, fields...)
}

func Debug(msg string, fields ...zapcore.Field) {
	get().Debug(msg, fields...)
}

func get() *zap.Logger {
	if Logger == nil {
		Init()
	}
	return Logger
}
