package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dmehra2102/prod-golang-projects/medstock/config"
)

// Option adjusts the zap config before the logger is built.
type Option func(*zap.Config)

// ToStderr sends log lines to stderr whatever LOG_OUTPUT says, keeping
// stdout free for report data.
func ToStderr() Option {
	return func(c *zap.Config) {
		c.OutputPaths = []string{"stderr"}
	}
}

// New builds the process logger: "json" selects the production encoder,
// anything else the human readable development one. Every line carries the
// service name, environment and version.
func New(cfg config.LogConfig, app config.AppConfig, opts ...Option) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "ts"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{cfg.OutputPath}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	zapCfg.InitialFields = serviceFields(app)

	for _, opt := range opts {
		opt(&zapCfg)
	}

	logger, err := zapCfg.Build(
		zap.WithCaller(true),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return logger, nil
}

func serviceFields(app config.AppConfig) map[string]any {
	fields := make(map[string]any, 3)
	if app.Name != "" {
		fields["service"] = app.Name
	}
	if app.Environment != "" {
		fields["env"] = app.Environment
	}
	if app.Version != "" {
		fields["version"] = app.Version
	}
	return fields
}
