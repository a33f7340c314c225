package otel

import (
	"context"

	"focustrack/internal/domain"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExportSession(ctx context.Context, session *domain.Session) error {
	return nil
}

func (e *NoOpExporter) ExportUnlock(ctx context.Context, achievement *domain.Achievement) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
