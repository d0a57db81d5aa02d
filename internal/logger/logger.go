package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log   *zap.Logger
	sugar *zap.SugaredLogger
)

func Init() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		logger = zap.NewNop()
	}

	log = logger
	sugar = logger.Sugar()
}

func ensure() {
	if log == nil {
		Init()
	}
}

func Debug(msg string, fields ...zap.Field) {
	ensure()
	log.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	ensure()
	log.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	ensure()
	log.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	ensure()
	log.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	ensure()
	log.Fatal(msg, fields...)
}

func Debugf(template string, args ...interface{}) {
	ensure()
	sugar.Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	ensure()
	sugar.Infof(template, args...)
}

func Errorf(template string, args ...interface{}) {
	ensure()
	sugar.Errorw(template, args...)
}

func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
