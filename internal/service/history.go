package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/LeventeLantos/call-scheduler/internal/cache"
	"github.com/LeventeLantos/call-scheduler/internal/client"
	"github.com/LeventeLantos/call-scheduler/internal/model"
	"github.com/LeventeLantos/call-scheduler/internal/repo"
)

type StatusFetcher interface {
	GetCall(ctx context.Context, callID string) (client.Call, error)
}

// EnrichedHistory is a stored history entry merged with the collaborator's
// live record. Live is false when the lookup failed and Status is the stored
// snapshot with nil enrichment fields.
type EnrichedHistory struct {
	model.CallHistory
	Live          bool    `json:"live"`
	Duration      *int    `json:"duration,omitempty"`
	CallCreatedAt *string `json:"call_created_at,omitempty"`
	CallUpdatedAt *string `json:"call_updated_at,omitempty"`
}

// HistoryService reads call history and refreshes each entry's status from
// the collaborator, best effort. It never writes to the repository.
type HistoryService struct {
	repo        repo.CallRepository
	fetcher     StatusFetcher
	cache       cache.StatusCache // optional
	concurrency int
}

func NewHistoryService(r repo.CallRepository, f StatusFetcher, concurrency int) *HistoryService {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &HistoryService{repo: r, fetcher: f, concurrency: concurrency}
}

func (s *HistoryService) WithCache(c cache.StatusCache) *HistoryService {
	s.cache = c
	return s
}

// ListEnriched returns history entries ordered most recent first, each
// refreshed with the collaborator's live status when it can be fetched.
// Lookups are independent; one failure only degrades its own entry.
func (s *HistoryService) ListEnriched(ctx context.Context, limit, offset int) ([]EnrichedHistory, error) {
	entries, err := s.repo.ListHistory(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	out := make([]EnrichedHistory, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, h := range entries {
		g.Go(func() error {
			out[i] = s.enrich(gctx, h)
			return nil
		})
	}
	_ = g.Wait()

	return out, nil
}

func (s *HistoryService) enrich(ctx context.Context, h model.CallHistory) EnrichedHistory {
	live, ok := s.lookup(ctx, h.CallID)
	if !ok {
		return EnrichedHistory{CallHistory: h}
	}

	e := EnrichedHistory{
		CallHistory:   h,
		Live:          true,
		Duration:      live.Duration,
		CallCreatedAt: live.CreatedAt,
		CallUpdatedAt: live.UpdatedAt,
	}
	e.Status = live.Status
	return e
}

func (s *HistoryService) lookup(ctx context.Context, callID string) (client.Call, bool) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, callID)
		if err != nil {
			slog.Warn("call status cache read failed", "call_id", callID, "error", err)
		} else if ok {
			return cached, true
		}
	}

	live, err := s.fetcher.GetCall(ctx, callID)
	if err != nil {
		slog.Warn("live call status lookup failed, using stored status", "call_id", callID, "error", err)
		return client.Call{}, false
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, callID, live); err != nil {
			slog.Warn("failed to cache call status", "call_id", callID, "error", err)
		}
	}
	return live, true
}
