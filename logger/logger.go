package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// New builds the process logger: JSON with ISO8601 timestamps in
// production, colored console output otherwise. Each sink additionally
// receives every entry as a JSON line.
func New(env string, sinks ...io.Writer) (*zap.Logger, error) {
	config := Config(env)
	if len(sinks) == 0 {
		return config.Build()
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder(config), zapcore.Lock(os.Stdout), config.Level),
	}
	for _, w := range sinks {
		cores = append(cores, jsonCore(config, w))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Config returns the zap configuration New uses for env.
func Config(env string) zap.Config {
	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return config
}

// NewWithWriter builds a JSON logger writing to w at the level env implies.
func NewWithWriter(env string, w io.Writer) *zap.Logger {
	return zap.New(jsonCore(Config(env), w), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

func jsonCore(config zap.Config, w io.Writer) zapcore.Core {
	enc := config.EncoderConfig
	enc.EncodeLevel = zapcore.LowercaseLevelEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), config.Level)
}

func consoleEncoder(config zap.Config) zapcore.Encoder {
	if config.Encoding == "json" {
		return zapcore.NewJSONEncoder(config.EncoderConfig)
	}
	return zapcore.NewConsoleEncoder(config.EncoderConfig)
}
