package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

// Init installs the global zap logger. Development gets the colourised
// console encoder, everything else structured JSON.
func Init(environment string) error {
	var conf zap.Config
	if environment == "development" {
		conf = zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		conf = zap.NewProductionConfig()
		conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		conf.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	}
	conf.Level = level

	l, err := conf.Build()
	if err != nil {
		return fmt.Errorf("conf.Build -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}

func SetLevel(name string) error {
	if name == "" {
		return nil
	}

	if err := level.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("level.UnmarshalText -> %w", err)
	}

	return nil
}

func Level() zapcore.Level {
	return level.Level()
}
