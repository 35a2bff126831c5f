package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EntityKind names a managed resource in metric attributes
type EntityKind string

const (
	EntityUser       EntityKind = "user"
	EntityTaskStatus EntityKind = "task_status"
	EntityLabel      EntityKind = "label"
	EntityTask       EntityKind = "task"
)

// TaskMetricsProvider reports the current number of tasks per status slug
type TaskMetricsProvider interface {
	CountTasksByStatus(ctx context.Context) (map[string]int64, error)
}

// BusinessMetrics counts entity lifecycle events and logins, and observes
// the task distribution across statuses.
type BusinessMetrics struct {
	entitiesCreated *Counter
	entitiesDeleted *Counter
	logins          *Counter
	registration    metric.Registration
	logger          *zap.Logger
}

// NewBusinessMetrics creates the instruments. A nil provider disables the
// tasks-by-status gauge.
func NewBusinessMetrics(meter metric.Meter, provider TaskMetricsProvider, logger *zap.Logger) (*BusinessMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	created, err := NewCounter(meter, "tm_entity_created_total", "Entities created", "{entity}")
	if err != nil {
		return nil, err
	}
	deleted, err := NewCounter(meter, "tm_entity_deleted_total", "Entities deleted", "{entity}")
	if err != nil {
		return nil, err
	}
	logins, err := NewCounter(meter, "tm_login_total", "Login attempts by result", "{attempt}")
	if err != nil {
		return nil, err
	}

	bm := &BusinessMetrics{
		entitiesCreated: created,
		entitiesDeleted: deleted,
		logins:          logins,
		logger:          logger,
	}
	if provider != nil {
		if err := bm.observeTasks(meter, provider); err != nil {
			return nil, err
		}
	}
	return bm, nil
}

func (bm *BusinessMetrics) observeTasks(meter metric.Meter, provider TaskMetricsProvider) error {
	gauge, err := meter.Int64ObservableGauge("tm_tasks",
		metric.WithDescription("Tasks by status"), metric.WithUnit("{task}"))
	if err != nil {
		return err
	}
	bm.registration, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		counts, err := provider.CountTasksByStatus(ctx)
		if err != nil {
			bm.logger.Warn("Failed to collect task counts", zap.Error(err))
			return nil
		}
		for slug, n := range counts {
			o.ObserveInt64(gauge, n, metric.WithAttributes(AttrTaskStatus.String(slug)))
		}
		return nil
	}, gauge)
	return err
}

// RecordEntityCreated counts one created entity
func (bm *BusinessMetrics) RecordEntityCreated(ctx context.Context, kind EntityKind) {
	bm.entitiesCreated.Inc(ctx, AttrEntity.String(string(kind)))
}

// RecordEntityDeleted counts one deleted entity
func (bm *BusinessMetrics) RecordEntityDeleted(ctx context.Context, kind EntityKind) {
	bm.entitiesDeleted.Inc(ctx, AttrEntity.String(string(kind)))
}

// RecordLogin counts a login attempt
func (bm *BusinessMetrics) RecordLogin(ctx context.Context, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	bm.logins.Inc(ctx, AttrLoginResult.String(result))
}

// Close stops observing task counts
func (bm *BusinessMetrics) Close() error {
	if bm.registration == nil {
		return nil
	}
	return bm.registration.Unregister()
}
