package ports

import (
	"context"

	"focustrack/internal/domain"
)

// MetricsExporter exports session metrics to an external observability system.
type MetricsExporter interface {
	// ExportSession exports counters for a persisted session.
	ExportSession(ctx context.Context, session *domain.Session) error
	// ExportUnlock records an achievement unlock.
	ExportUnlock(ctx context.Context, achievement *domain.Achievement) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
