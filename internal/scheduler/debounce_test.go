package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"joyeria/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flushRecorder struct {
	mu      sync.Mutex
	flushed []model.GroupVariables
}

func (f *flushRecorder) flush(_ context.Context, vars model.GroupVariables) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushed = append(f.flushed, vars)
	return nil
}

func (f *flushRecorder) snapshot() []model.GroupVariables {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.GroupVariables(nil), f.flushed...)
}

func varsWithWeight(groupID uuid.UUID, weight string) model.GroupVariables {
	v := model.DefaultGroupVariables(groupID)
	v.Weight = decimal.RequireFromString(weight)
	return v
}

func TestDebouncer_CoalescesToLatestWrite(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.flush, zerolog.Nop())

	groupID := uuid.New()
	d.Submit(varsWithWeight(groupID, "1"))
	d.Submit(varsWithWeight(groupID, "2"))
	d.Submit(varsWithWeight(groupID, "3"))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond, "expected exactly one flush")

	got := rec.snapshot()
	assert.True(t, got[0].Weight.Equal(decimal.RequireFromString("3")),
		"latest write must win, got weight %s", got[0].Weight)
	assert.Equal(t, 0, d.PendingCount())
}

func TestDebouncer_IndependentKeys(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.flush, zerolog.Nop())

	a, b := uuid.New(), uuid.New()
	d.Submit(varsWithWeight(a, "5"))
	d.Submit(varsWithWeight(b, "7"))

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestDebouncer_FlushDrainsImmediately(t *testing.T) {
	rec := &flushRecorder{}
	d := NewDebouncer(time.Hour, rec.flush, zerolog.Nop())

	groupID := uuid.New()
	d.Submit(varsWithWeight(groupID, "1"))
	d.Submit(varsWithWeight(groupID, "9"))
	require.Equal(t, 1, d.PendingCount())

	d.Flush()

	got := rec.snapshot()
	require.Len(t, got, 1)
	assert.True(t, got[0].Weight.Equal(decimal.RequireFromString("9")))
	assert.Equal(t, 0, d.PendingCount())
}
