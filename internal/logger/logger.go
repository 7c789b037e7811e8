package logger

import (
	"io"
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"

	"train_schedule/internal/config"
)

var rotator io.Writer = io.Discard

// Setup initializes Logrus via a rotating file.
func Setup(cfg config.LoggingConfig) {
	// 1) Lumberjack for file rotation
	rotator = &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays, // days
		Compress:   true,
	}

	// 2) Configure Logrus to write to that file
	logrus.SetOutput(rotator)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.WithError(err).Warnf("unknown log level %q, using debug", cfg.Level)
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
}

// Writer is the rotating file shared with the request logger.
func Writer() io.Writer {
	return rotator
}

// GormLogger routes GORM's SQL log through Logrus. Slow queries and errors
// show up at Warn; everything else only at Debug.
func GormLogger() gormlogger.Interface {
	level := gormlogger.Warn
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	return gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
