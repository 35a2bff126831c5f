package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func zapNop() *zap.Logger { return zap.NewNop() }

type staticTaskCounts struct {
	counts map[string]int64
	err    error
}

func (s staticTaskCounts) CountTasksByStatus(context.Context) (map[string]int64, error) {
	return s.counts, s.err
}

func TestBusinessMetrics_Counters(t *testing.T) {
	mp, reader := newTestMeter(t)
	bm, err := NewBusinessMetrics(mp.Meter("test"), nil, nil)
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordEntityCreated(ctx, EntityTask)
	bm.RecordEntityCreated(ctx, EntityTask)
	bm.RecordEntityCreated(ctx, EntityLabel)
	bm.RecordEntityDeleted(ctx, EntityUser)
	bm.RecordLogin(ctx, true)
	bm.RecordLogin(ctx, false)
	bm.RecordLogin(ctx, false)

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumFor(t, metrics["tm_entity_created_total"], AttrEntity.String("task")))
	assert.Equal(t, int64(1), sumFor(t, metrics["tm_entity_created_total"], AttrEntity.String("label")))
	assert.Equal(t, int64(1), sumFor(t, metrics["tm_entity_deleted_total"], AttrEntity.String("user")))
	assert.Equal(t, int64(1), sumFor(t, metrics["tm_login_total"], AttrLoginResult.String("success")))
	assert.Equal(t, int64(2), sumFor(t, metrics["tm_login_total"], AttrLoginResult.String("failure")))
	assert.NoError(t, bm.Close())
}

func TestBusinessMetrics_TasksByStatus(t *testing.T) {
	t.Run("observes provider counts", func(t *testing.T) {
		mp, reader := newTestMeter(t)
		bm, err := NewBusinessMetrics(mp.Meter("test"), staticTaskCounts{
			counts: map[string]int64{"draft": 4, "published": 0},
		}, zapNop())
		require.NoError(t, err)
		defer bm.Close()

		m := collect(t, reader)["tm_tasks"]
		assert.Equal(t, int64(4), gaugeFor(t, m, AttrTaskStatus.String("draft")))
		assert.Equal(t, int64(0), gaugeFor(t, m, AttrTaskStatus.String("published")))
	})

	t.Run("provider error skips the observation", func(t *testing.T) {
		mp, reader := newTestMeter(t)
		bm, err := NewBusinessMetrics(mp.Meter("test"), staticTaskCounts{err: errors.New("db down")}, zapNop())
		require.NoError(t, err)
		defer bm.Close()

		_, found := collect(t, reader)["tm_tasks"]
		assert.False(t, found)
	})
}
