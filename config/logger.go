package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a no-op until InitLogger runs.
var Logger = zap.NewNop().Sugar()

// InitLogger writes JSON logs to a daily file under LOG_DIR and human-readable logs to
// stdout. LOG_LEVEL applies to the file; the console also shows debug outside production.
func InitLogger(config Config) error {
	level, err := zapcore.ParseLevel(config.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", config.LogLevel, err)
	}

	dir := config.LogDir
	if dir == "" {
		dir = "logs"
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(dir, fmt.Sprintf("emotion_tracker_%s.log", time.Now().Format("2006-01-02"))),
			MaxSize:    100, // MB
			MaxBackups: 30,
			MaxAge:     90, // days
		}),
		level,
	)

	consoleLevel := zapcore.DebugLevel
	if config.Environment == "production" {
		consoleLevel = level
	}
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		consoleLevel,
	)

	core := zapcore.NewTee(fileCore, consoleCore)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	Logger = logger.Sugar().With("env", config.Environment)
	return nil
}
