package main

import (
	"os"

	"github.com/gen2brain/eac3"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLayout = "FL,FR,FC,LFE,SL,SR,RL,RR"

// newConfig returns the configuration with defaults and environment bindings.
// The config file is read later by readConfig, once flags are parsed.
func newConfig() *viper.Viper {
	v := viper.New()

	v.SetDefault("chunk_size", eac3.ChunkSize)
	v.SetDefault("layout", defaultLayout)
	v.SetDefault("output", "")
	v.SetDefault("verbose", false)

	// EAC3TOOL_CHUNK_SIZE, EAC3TOOL_LAYOUT, ...
	v.SetEnvPrefix("eac3tool")
	v.AutomaticEnv()

	v.SetConfigName("eac3tool")
	v.SetConfigType("yaml")

	configPaths := []string{
		".",
		"$HOME/.config/eac3tool",
	}
	for _, path := range configPaths {
		v.AddConfigPath(os.ExpandEnv(path))
	}

	return v
}

// readConfig reads the config file, or the one given with --config. A missing
// file is not an error.
func readConfig(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return errors.Wrap(err, "reading config file")
	}

	return nil
}

// newLogger returns a console logger writing to stderr, so that it does not mix
// with the probe output.
func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	cfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}

	return logger.Named("eac3tool").Sugar(), nil
}
