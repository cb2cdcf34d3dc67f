package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LeventeLantos/call-scheduler/internal/model"
	"github.com/LeventeLantos/call-scheduler/internal/repo"
	"github.com/LeventeLantos/call-scheduler/internal/service"
)

func TestCallService_Create_Valid(t *testing.T) {
	t.Parallel()

	r := repo.NewMemoryCallRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := service.NewCallService(r).WithClock(func() time.Time { return now })

	created, err := svc.Create(context.Background(), "+15551234567", "2026-09-01T12:01:00Z")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if created.Status != model.Pending {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if created.PhoneNumber != "+15551234567" {
		t.Fatalf("unexpected phone number %q", created.PhoneNumber)
	}
	if !created.ScheduledAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("expected scheduled at %v, got %v", now.Add(time.Minute), created.ScheduledAt)
	}
	if created.ExecutedAt != nil || created.CallID != nil {
		t.Fatalf("expected nil executedAt and callID on a pending call")
	}
}

func TestCallService_Create_NormalizesOffsetToUTC(t *testing.T) {
	t.Parallel()

	r := repo.NewMemoryCallRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := service.NewCallService(r).WithClock(func() time.Time { return now })

	created, err := svc.Create(context.Background(), "+15551234567", "2026-09-01T14:30:00+02:00")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	want := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	if !created.ScheduledAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, created.ScheduledAt)
	}
	if created.ScheduledAt.Location() != time.UTC {
		t.Fatalf("expected UTC storage, got %v", created.ScheduledAt.Location())
	}
}

func TestCallService_Create_ValidationFailures(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		phone     string
		scheduled string
		want      error
	}{
		{"missing phone", "", "2026-09-01T13:00:00Z", service.ErrMissingFields},
		{"missing time", "+15551234567", "", service.ErrMissingFields},
		{"phone too short", "+1555", "2026-09-01T13:00:00Z", service.ErrPhoneTooShort},
		{"unparseable time", "+15551234567", "tomorrow at noon", service.ErrBadScheduleTime},
		{"past time", "+15551234567", "2026-09-01T11:59:50Z", service.ErrPastScheduleTime},
		{"exactly now", "+15551234567", "2026-09-01T12:00:00Z", service.ErrPastScheduleTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := repo.NewMemoryCallRepo()
			svc := service.NewCallService(r).WithClock(func() time.Time { return now })

			_, err := svc.Create(context.Background(), tc.phone, tc.scheduled)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !service.IsValidation(err) {
				t.Fatalf("expected a validation error, got %v", err)
			}

			// Nothing must be stored on validation failure.
			list, listErr := r.ListScheduled(context.Background())
			if listErr != nil {
				t.Fatalf("ListScheduled() error: %v", listErr)
			}
			if len(list) != 0 {
				t.Fatalf("expected no stored calls, got %d", len(list))
			}
		})
	}
}

func TestCallService_Delete(t *testing.T) {
	t.Parallel()

	r := repo.NewMemoryCallRepo()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := service.NewCallService(r).WithClock(func() time.Time { return now })

	created, err := svc.Create(context.Background(), "+15551234567", "2026-09-01T13:00:00Z")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(list))
	}

	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
