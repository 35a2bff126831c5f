package telemetry

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormTaskMetricsProvider counts tasks per status with a single grouped query
type GormTaskMetricsProvider struct {
	db *gorm.DB
}

// NewGormTaskMetricsProvider creates a provider over db
func NewGormTaskMetricsProvider(db *gorm.DB) *GormTaskMetricsProvider {
	return &GormTaskMetricsProvider{db: db}
}

// CountTasksByStatus returns the task count keyed by status slug. Statuses
// without tasks are reported with zero.
func (p *GormTaskMetricsProvider) CountTasksByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Slug  string
		Count int64
	}
	err := p.db.WithContext(ctx).
		Table("task_statuses").
		Select("task_statuses.slug AS slug, COUNT(tasks.id) AS count").
		Joins("LEFT JOIN tasks ON tasks.task_status_id = task_statuses.id").
		Group("task_statuses.slug").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count tasks by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Slug] = r.Count
	}
	return counts, nil
}
