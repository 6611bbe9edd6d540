// Package scheduler coalesces the write storm produced by an operator typing
// into a pricing template form. Rapid successive versions of a group's cost
// record are collapsed to the most recent one, which is persisted after a
// quiet window. This is a write throttle, not a consistency mechanism:
// readers may see variables up to one window stale, and the last write wins.
package scheduler

import (
	"context"
	"sync"
	"time"

	"joyeria/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultWindow is the quiet period before a pending edit is persisted.
const DefaultWindow = time.Second

// FlushFunc persists one coalesced cost record.
type FlushFunc func(ctx context.Context, vars model.GroupVariables) error

type pendingWrite struct {
	timer *time.Timer
	vars  model.GroupVariables
}

// Debouncer keeps at most one pending write per group. Submit replaces the
// pending payload and restarts that group's timer.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	flush   FlushFunc
	log     zerolog.Logger
	pending map[uuid.UUID]*pendingWrite
}

func NewDebouncer(window time.Duration, flush FlushFunc, log zerolog.Logger) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		window:  window,
		flush:   flush,
		log:     log,
		pending: make(map[uuid.UUID]*pendingWrite),
	}
}

// Submit schedules vars for persistence after the quiet window, replacing any
// earlier pending version for the same group.
func (d *Debouncer) Submit(vars model.GroupVariables) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[vars.GroupID]; ok {
		p.vars = vars
		p.timer.Reset(d.window)
		return
	}

	groupID := vars.GroupID
	p := &pendingWrite{vars: vars}
	p.timer = time.AfterFunc(d.window, func() {
		d.fire(groupID)
	})
	d.pending[groupID] = p
}

func (d *Debouncer) fire(groupID uuid.UUID) {
	d.mu.Lock()
	p, ok := d.pending[groupID]
	if ok {
		delete(d.pending, groupID)
	}
	d.mu.Unlock()
	if !ok {
		return
	}

	if err := d.flush(context.Background(), p.vars); err != nil {
		d.log.Error().Err(err).Str("group_id", groupID.String()).Msg("debounced upsert failed")
		return
	}
	d.log.Debug().Str("group_id", groupID.String()).Msg("group variables persisted")
}

// Flush drains every pending write immediately. Called on shutdown so edits
// inside the quiet window are not lost.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	drained := make([]model.GroupVariables, 0, len(d.pending))
	for id, p := range d.pending {
		p.timer.Stop()
		drained = append(drained, p.vars)
		delete(d.pending, id)
	}
	d.mu.Unlock()

	for _, vars := range drained {
		if err := d.flush(context.Background(), vars); err != nil {
			d.log.Error().Err(err).Str("group_id", vars.GroupID.String()).Msg("flush on drain failed")
		}
	}
}

// PendingCount reports how many groups currently have an unpersisted edit.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
