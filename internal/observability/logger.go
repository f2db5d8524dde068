package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sweetShop/internal/config"
)

// NewLogger builds the process logger for env: a colored development
// logger at debug level locally, JSON at debug on dev and JSON at info in prod.
func NewLogger(env string) (*zap.Logger, error) {
	switch env {
	case config.EnvDev:
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	case config.EnvProd:
		return zap.NewProduction()
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
}
