package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sweetShop/internal/config"
)

const instrumentationScope = "sweetShop"

// ExportLogs tees logger into an OTLP/HTTP log exporter so records reach the
// same collector as spans. Without an endpoint logger is returned unchanged.
func ExportLogs(ctx context.Context, cfg config.TracingConfig, logger *zap.Logger) (*zap.Logger, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if cfg.Endpoint == "" {
		return logger, noop, nil
	}

	exporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpoint(cfg.Endpoint),
		otlploghttp.WithInsecure(),
	)
	if err != nil {
		return logger, noop, fmt.Errorf("create OTLP log exporter: %w", err)
	}
	res, err := newResource()
	if err != nil {
		return logger, noop, err
	}
	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter,
			sdklog.WithExportTimeout(exportTimeout),
			sdklog.WithMaxQueueSize(maxQueueSize),
		)),
	)
	return teeOTel(logger, lp), lp.Shutdown, nil
}

func teeOTel(logger *zap.Logger, lp *sdklog.LoggerProvider) *zap.Logger {
	otelCore := otelzap.NewCore(instrumentationScope, otelzap.WithLoggerProvider(lp))
	return logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, otelCore)
	}))
}
