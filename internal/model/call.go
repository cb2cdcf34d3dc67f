package model

import "time"

type Status string

const (
	// Pending calls are waiting for their scheduled time.
	Pending Status = "pending"
	// Processing marks a call claimed by a tick; it is in flight and must
	// never be selected again.
	Processing Status = "processing"
	// Executed and Failed are terminal.
	Executed Status = "executed"
	Failed   Status = "failed"
)

// Call is one scheduled phone call.
type Call struct {
	ID          int64      `json:"id"`
	PhoneNumber string     `json:"phone_number"`
	ScheduledAt time.Time  `json:"scheduled_time"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ExecutedAt  *time.Time `json:"executed_at,omitempty"`
	CallID      *string    `json:"call_id,omitempty"`
	LastError   *string    `json:"last_error,omitempty"`
}

// CallHistory is the append-only record of one placed call. It snapshots the
// originating Call at dispatch time; Status is the collaborator's status at
// that moment and may go stale relative to its live record.
type CallHistory struct {
	ID          int64     `json:"id"`
	CallID      string    `json:"call_id"`
	PhoneNumber string    `json:"phone_number"`
	ScheduledAt time.Time `json:"scheduled_time"`
	Status      string    `json:"status"`
	ExecutedAt  time.Time `json:"executed_at"`
}
