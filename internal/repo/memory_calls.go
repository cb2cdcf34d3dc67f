package repo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/LeventeLantos/call-scheduler/internal/model"
)

// MemoryCallRepo is an in-memory CallRepository. It backs tests and lets the
// scheduling loop run without Postgres.
type MemoryCallRepo struct {
	mu      sync.RWMutex
	nextID  int64
	calls   map[int64]model.Call
	history []model.CallHistory
}

func NewMemoryCallRepo() *MemoryCallRepo {
	return &MemoryCallRepo{
		nextID: 1,
		calls:  make(map[int64]model.Call),
	}
}

func (r *MemoryCallRepo) InsertScheduled(ctx context.Context, phoneNumber string, scheduledAt time.Time) (model.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := model.Call{
		ID:          r.nextID,
		PhoneNumber: phoneNumber,
		ScheduledAt: scheduledAt.UTC(),
		Status:      model.Pending,
		CreatedAt:   time.Now().UTC(),
	}
	r.nextID++
	r.calls[c.ID] = c
	return c, nil
}

func (r *MemoryCallRepo) ListScheduled(ctx context.Context) ([]model.Call, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Call, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func (r *MemoryCallRepo) ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.Call, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var due []model.Call
	for _, c := range r.calls {
		if c.Status == model.Pending && !c.ScheduledAt.After(now) {
			due = append(due, c)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].ScheduledAt.Before(due[j].ScheduledAt)
	})
	if len(due) > limit {
		due = due[:limit]
	}

	for i, c := range due {
		c.Status = model.Processing
		r.calls[c.ID] = c
		due[i] = c
	}
	return due, nil
}

func (r *MemoryCallRepo) MarkExecuted(ctx context.Context, id int64, executedAt time.Time, callID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.calls[id]
	if !ok || c.Status != model.Processing {
		return nil
	}

	t := executedAt.UTC()
	c.Status = model.Executed
	c.ExecutedAt = &t
	c.CallID = &callID
	r.calls[id] = c
	return nil
}

func (r *MemoryCallRepo) MarkFailed(ctx context.Context, id int64, executedAt time.Time, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.calls[id]
	if !ok || c.Status != model.Processing {
		return nil
	}

	t := executedAt.UTC()
	c.Status = model.Failed
	c.ExecutedAt = &t
	c.LastError = &reason
	r.calls[id] = c
	return nil
}

func (r *MemoryCallRepo) DeleteScheduled(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.calls[id]; !ok {
		return ErrNotFound
	}
	delete(r.calls, id)
	return nil
}

func (r *MemoryCallRepo) InsertHistory(ctx context.Context, h model.CallHistory) (model.CallHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h.ID = int64(len(r.history) + 1)
	r.history = append(r.history, h)
	return h, nil
}

func (r *MemoryCallRepo) ListHistory(ctx context.Context, limit, offset int) ([]model.CallHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]model.CallHistory, len(r.history))
	copy(sorted, r.history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ExecutedAt.After(sorted[j].ExecutedAt)
	})

	if offset >= len(sorted) {
		return nil, nil
	}
	sorted = sorted[offset:]
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

var _ CallRepository = (*MemoryCallRepo)(nil)
var _ CallRepository = (*PostgresCallRepo)(nil)
