// Package telemetry wires OpenTelemetry instrumentation into the database
// layer. Exporters and the tracer provider are configured by the deployment;
// without one the global no-op provider is used.
package telemetry

import (
	"github.com/repairshop/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// dbSystem is reported as db.system on every query span
const dbSystem = "postgresql"

// EnableDBTracing registers the otelgorm plugin on db when telemetry and
// database tracing are both enabled. Query variables are left out of spans
// unless cfg.DBLogFullSQL is set.
func EnableDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		logger.Debug("database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(dbSystem),
		otelgorm.WithAttributes(attribute.String("service.name", cfg.ServiceName)),
	}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("database tracing enabled", zap.Bool("full_sql", cfg.DBLogFullSQL))
	return nil
}
