package log

import (
	"fmt"

	"go.uber.org/zap"
)

var logger *zap.Logger

func init() {
	logger, _ = zap.NewProduction()
}

// Configure swaps the package logger. A development logger is human readable
// and emits debug lines.
func Configure(development bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	Use(l)
	return nil
}

// Use installs l as the package logger; tests hand in zap.NewNop().
func Use(l *zap.Logger) {
	_ = logger.Sync()
	logger = l
}

func Sync() {
	_ = logger.Sync()
}

func Printf(msg string, s ...any) {
	Info(fmt.Sprintf(msg, s...))
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}
