package cache

import (
	"context"

	"github.com/LeventeLantos/call-scheduler/internal/client"
)

// StatusCache is a short-lived cache of the collaborator's live call records,
// consulted by history reads before going back to the collaborator.
type StatusCache interface {
	Store(ctx context.Context, callID string, call client.Call) error
	Get(ctx context.Context, callID string) (client.Call, bool, error)
}
