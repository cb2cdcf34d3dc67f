package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/LeventeLantos/call-scheduler/internal/model"
)

type PostgresCallRepo struct {
	db *sql.DB
}

func NewPostgresCallRepo(db *sql.DB) *PostgresCallRepo {
	return &PostgresCallRepo{db: db}
}

func (r *PostgresCallRepo) InsertScheduled(ctx context.Context, phoneNumber string, scheduledAt time.Time) (model.Call, error) {
	var c model.Call
	var status string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO scheduled_calls (phone_number, scheduled_at, status, created_at)
		VALUES ($1, $2, 'pending', now())
		RETURNING id, phone_number, scheduled_at, status, created_at
	`, phoneNumber, scheduledAt.UTC()).Scan(
		&c.ID,
		&c.PhoneNumber,
		&c.ScheduledAt,
		&status,
		&c.CreatedAt,
	)
	if err != nil {
		return model.Call{}, err
	}
	c.Status = model.Status(status)
	return c, nil
}

func (r *PostgresCallRepo) ListScheduled(ctx context.Context) ([]model.Call, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, phone_number, scheduled_at, status, created_at,
		       executed_at, call_id, last_error
		FROM scheduled_calls
		ORDER BY scheduled_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCalls(rows)
}

func (r *PostgresCallRepo) ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.Call, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, phone_number, scheduled_at, status, created_at,
		       executed_at, call_id, last_error
		FROM scheduled_calls
		WHERE status = 'pending' AND scheduled_at <= $1
		ORDER BY scheduled_at ASC
		FOR UPDATE SKIP LOCKED
		LIMIT $2
	`, now.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calls, err := scanCalls(rows)
	if err != nil {
		return nil, err
	}

	if len(calls) == 0 {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	for _, c := range calls {
		if _, err := tx.ExecContext(ctx, `
			UPDATE scheduled_calls
			SET status = 'processing'
			WHERE id = $1
		`, c.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	for i := range calls {
		calls[i].Status = model.Processing
	}
	return calls, nil
}

func (r *PostgresCallRepo) MarkExecuted(ctx context.Context, id int64, executedAt time.Time, callID string) error {
	// Guarding on status = 'processing' makes a second terminal write a
	// no-op instead of an overwrite.
	_, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_calls
		SET status = 'executed',
		    executed_at = $2,
		    call_id = $3
		WHERE id = $1 AND status = 'processing'
	`, id, executedAt.UTC(), callID)
	return err
}

func (r *PostgresCallRepo) MarkFailed(ctx context.Context, id int64, executedAt time.Time, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_calls
		SET status = 'failed',
		    executed_at = $2,
		    last_error = $3
		WHERE id = $1 AND status = 'processing'
	`, id, executedAt.UTC(), reason)
	return err
}

func (r *PostgresCallRepo) DeleteScheduled(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM scheduled_calls WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresCallRepo) InsertHistory(ctx context.Context, h model.CallHistory) (model.CallHistory, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO call_history (call_id, phone_number, scheduled_at, status, executed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, h.CallID, h.PhoneNumber, h.ScheduledAt.UTC(), h.Status, h.ExecutedAt.UTC()).Scan(&h.ID)
	if err != nil {
		return model.CallHistory{}, err
	}
	return h, nil
}

func (r *PostgresCallRepo) ListHistory(ctx context.Context, limit, offset int) ([]model.CallHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, call_id, phone_number, scheduled_at, status, executed_at
		FROM call_history
		ORDER BY executed_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CallHistory
	for rows.Next() {
		var h model.CallHistory
		if err := rows.Scan(
			&h.ID,
			&h.CallID,
			&h.PhoneNumber,
			&h.ScheduledAt,
			&h.Status,
			&h.ExecutedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func scanCalls(rows *sql.Rows) ([]model.Call, error) {
	var out []model.Call
	for rows.Next() {
		var c model.Call
		var status string
		var executedAt sql.NullTime
		var callID sql.NullString
		var lastErr sql.NullString

		if err := rows.Scan(
			&c.ID,
			&c.PhoneNumber,
			&c.ScheduledAt,
			&status,
			&c.CreatedAt,
			&executedAt,
			&callID,
			&lastErr,
		); err != nil {
			return nil, err
		}

		c.Status = model.Status(status)

		if executedAt.Valid {
			t := executedAt.Time
			c.ExecutedAt = &t
		}
		if callID.Valid {
			s := callID.String
			c.CallID = &s
		}
		if lastErr.Valid {
			s := lastErr.String
			c.LastError = &s
		}

		out = append(out, c)
	}
	return out, rows.Err()
}
