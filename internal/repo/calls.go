package repo

import (
	"context"
	"errors"
	"time"

	"github.com/LeventeLantos/call-scheduler/internal/model"
)

var ErrNotFound = errors.New("not found")

type CallRepository interface {
	// InsertScheduled stores a new pending call. Validation of the inputs
	// happens in the service layer; the repository only persists.
	InsertScheduled(ctx context.Context, phoneNumber string, scheduledAt time.Time) (model.Call, error)

	// ListScheduled returns every scheduled call ordered by scheduled time
	// ascending, regardless of status.
	ListScheduled(ctx context.Context) ([]model.Call, error)

	// ClaimDue selects up to limit pending calls whose scheduled time is at
	// or before now, ordered earliest first, and atomically marks them
	// processing. A claimed call is never returned by a later ClaimDue.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.Call, error)

	// MarkExecuted and MarkFailed move a processing call to its terminal
	// state. Both are no-ops on calls that are not processing, so a second
	// terminal write never reverts or double-applies a transition.
	MarkExecuted(ctx context.Context, id int64, executedAt time.Time, callID string) error
	MarkFailed(ctx context.Context, id int64, executedAt time.Time, reason string) error

	// DeleteScheduled removes a call by id. Returns ErrNotFound for
	// unknown ids.
	DeleteScheduled(ctx context.Context, id int64) error

	InsertHistory(ctx context.Context, h model.CallHistory) (model.CallHistory, error)
	// ListHistory returns history entries ordered by executed time
	// descending (most recent first).
	ListHistory(ctx context.Context, limit, offset int) ([]model.CallHistory, error)
}
