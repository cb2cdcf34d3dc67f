package service

import (
	"context"
	"time"

	"github.com/LeventeLantos/call-scheduler/internal/model"
	"github.com/LeventeLantos/call-scheduler/internal/repo"
)

// CallService handles creation, listing and deletion of scheduled calls.
// It owns input validation; the repository only persists.
type CallService struct {
	repo repo.CallRepository
	now  func() time.Time
}

func NewCallService(r repo.CallRepository) *CallService {
	return &CallService{repo: r, now: time.Now}
}

// WithClock overrides the service clock, for tests.
func (s *CallService) WithClock(now func() time.Time) *CallService {
	s.now = now
	return s
}

func (s *CallService) Create(ctx context.Context, phoneNumber, scheduledAt string) (model.Call, error) {
	phone, err := ValidatePhoneNumber(phoneNumber)
	if err != nil {
		return model.Call{}, err
	}

	at, err := ParseScheduleTime(scheduledAt, s.now())
	if err != nil {
		return model.Call{}, err
	}

	return s.repo.InsertScheduled(ctx, phone, at)
}

func (s *CallService) List(ctx context.Context) ([]model.Call, error) {
	return s.repo.ListScheduled(ctx)
}

func (s *CallService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteScheduled(ctx, id)
}
