package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LeventeLantos/call-scheduler/internal/cache"
	"github.com/LeventeLantos/call-scheduler/internal/client"
	"github.com/LeventeLantos/call-scheduler/internal/model"
	"github.com/LeventeLantos/call-scheduler/internal/repo"
)

type CallPlacer interface {
	PlaceCall(ctx context.Context, phoneNumber string) (client.Call, error)
}

// Dispatcher claims due calls and places each through the collaborator
// exactly once, then writes the terminal transition back. A call that fails
// for any reason is terminal; there is no retry.
type Dispatcher struct {
	repo        repo.CallRepository
	placer      CallPlacer
	cache       cache.StatusCache // optional
	batchSize   int
	concurrency int
}

func NewDispatcher(r repo.CallRepository, p CallPlacer, batchSize, concurrency int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 50
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Dispatcher{
		repo:        r,
		placer:      p,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// WithCache enables best-effort caching of the collaborator's response for
// later history reads.
func (d *Dispatcher) WithCache(c cache.StatusCache) *Dispatcher {
	d.cache = c
	return d
}

// DispatchDue runs one scheduling pass: claim everything due at now and
// dispatch the claimed calls concurrently. Item failures are isolated; only
// a failure of the claim query itself is returned.
func (d *Dispatcher) DispatchDue(ctx context.Context, now time.Time) (executed, failed int, err error) {
	due, err := d.repo.ClaimDue(ctx, now, d.batchSize)
	if err != nil {
		return 0, 0, err
	}
	if len(due) == 0 {
		return 0, 0, nil
	}

	var executedN, failedN atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, c := range due {
		g.Go(func() error {
			if d.dispatchOne(gctx, c) {
				executedN.Add(1)
			} else {
				failedN.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(executedN.Load()), int(failedN.Load()), nil
}

// dispatchOne performs the dispatch procedure for a single claimed call and
// reports whether it executed.
func (d *Dispatcher) dispatchOne(ctx context.Context, c model.Call) bool {
	placed, err := d.placer.PlaceCall(ctx, c.PhoneNumber)
	executedAt := time.Now().UTC()

	// A claimed call must always reach a terminal state. The transition
	// writes run on a detached context so that scheduler stop or shutdown
	// cancelling the tick mid-dispatch cannot strand the row in processing.
	ctx = context.WithoutCancel(ctx)

	if err != nil {
		slog.Error("call dispatch failed",
			"id", c.ID,
			"phone_number", c.PhoneNumber,
			"error", err,
		)
		if markErr := d.repo.MarkFailed(ctx, c.ID, executedAt, err.Error()); markErr != nil {
			slog.Error("failed to mark call failed", "id", c.ID, "error", markErr)
		}
		return false
	}

	// The executed mark is the source of truth; a history or cache failure
	// after it never reverts the transition.
	if err := d.repo.MarkExecuted(ctx, c.ID, executedAt, placed.ID); err != nil {
		slog.Error("failed to mark call executed", "id", c.ID, "call_id", placed.ID, "error", err)
		return false
	}

	if _, err := d.repo.InsertHistory(ctx, model.CallHistory{
		CallID:      placed.ID,
		PhoneNumber: c.PhoneNumber,
		ScheduledAt: c.ScheduledAt,
		Status:      placed.Status,
		ExecutedAt:  executedAt,
	}); err != nil {
		slog.Error("failed to record call history", "id", c.ID, "call_id", placed.ID, "error", err)
	}

	if d.cache != nil {
		if err := d.cache.Store(ctx, placed.ID, placed); err != nil {
			slog.Warn("failed to cache call status", "call_id", placed.ID, "error", err)
		}
	}

	slog.Info("scheduled call executed",
		"id", c.ID,
		"call_id", placed.ID,
		"status", placed.Status,
	)
	return true
}
