package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rotisserie/eris"

	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/model"
)

type ScheduledMessageRepositoryInterface interface {
	Create(ctx context.Context, m *model.ScheduledMessage) error
	GetByID(ctx context.Context, userID, id string) (*model.ScheduledMessage, error)
	List(ctx context.Context, userID string, status model.ScheduleStatus) ([]model.ScheduledMessage, error)
	Transition(ctx context.Context, userID, id string, from, to model.ScheduleStatus) (bool, error)
	Delete(ctx context.Context, userID, id string) error

	// Used by the external batch worker.
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.ScheduledMessage, error)
	MarkSent(ctx context.Context, id string) error
}

type ScheduledMessageRepository struct {
	DB *sql.DB
}

const scheduledColumns = `id, user_id, campaign_id, instance_id, name, scheduled_at, status,
	selected_types, messages, media_url, delay_min, delay_max, total_leads, created_at`

func (r *ScheduledMessageRepository) Create(ctx context.Context, m *model.ScheduledMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.Status = model.SchedulePending
	m.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO scheduled_messages (` + scheduledColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.DB.ExecContext(ctx, query,
		m.ID, m.UserID, m.CampaignID, m.InstanceID, m.Name, m.ScheduledAt, m.Status,
		pq.Array(m.SelectedTypes), m.Messages, m.MediaURL, m.DelayMin, m.DelayMax, m.TotalLeads, m.CreatedAt,
	)
	return eris.Wrap(err, "scheduled messages: insert")
}

func (r *ScheduledMessageRepository) GetByID(ctx context.Context, userID, id string) (*model.ScheduledMessage, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_messages WHERE id=$1 AND user_id=$2`
	m, err := scanScheduled(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, appErrors.NewNotFound("scheduled message", id)
		}
		return nil, eris.Wrap(err, "scheduled messages: get")
	}
	return m, nil
}

// List returns the user's batches by scheduled time; an empty status lists all.
func (r *ScheduledMessageRepository) List(ctx context.Context, userID string, status model.ScheduleStatus) ([]model.ScheduledMessage, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_messages WHERE user_id=$1`
	args := []any{userID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY scheduled_at ASC`
	return r.query(ctx, query, args...)
}

// Transition moves a batch from one status to another. It reports false when
// the row exists but is no longer in the from status.
func (r *ScheduledMessageRepository) Transition(ctx context.Context, userID, id string, from, to model.ScheduleStatus) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE scheduled_messages SET status=$1 WHERE id=$2 AND user_id=$3 AND status=$4`,
		to, id, userID, from,
	)
	if isMalformedID(err) {
		return false, appErrors.NewNotFound("scheduled message", id)
	}
	if err != nil {
		return false, eris.Wrap(err, "scheduled messages: transition")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "scheduled messages: transition rows affected")
	}
	if n == 1 {
		return true, nil
	}

	// Distinguish "not yours / gone" from "wrong status".
	if _, err := r.GetByID(ctx, userID, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *ScheduledMessageRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM scheduled_messages WHERE id=$1 AND user_id=$2`, id, userID)
	if isMalformedID(err) {
		return appErrors.NewNotFound("scheduled message", id)
	}
	if err != nil {
		return eris.Wrap(err, "scheduled messages: delete")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "scheduled messages: delete rows affected")
	}
	if n == 0 {
		return appErrors.NewNotFound("scheduled message", id)
	}
	return nil
}

// ListDue returns pending batches whose time has come, oldest first.
func (r *ScheduledMessageRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]model.ScheduledMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_messages
		WHERE status='pending' AND scheduled_at <= $1
		ORDER BY scheduled_at ASC
		LIMIT $2`
	return r.query(ctx, query, now, limit)
}

func (r *ScheduledMessageRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE scheduled_messages SET status='sent' WHERE id=$1 AND status='pending'`, id)
	return eris.Wrap(err, "scheduled messages: mark sent")
}

func (r *ScheduledMessageRepository) query(ctx context.Context, query string, args ...any) ([]model.ScheduledMessage, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "scheduled messages: query")
	}
	defer rows.Close()

	out := []model.ScheduledMessage{}
	for rows.Next() {
		m, err := scanScheduled(rows)
		if err != nil {
			return nil, eris.Wrap(err, "scheduled messages: scan")
		}
		out = append(out, *m)
	}
	return out, eris.Wrap(rows.Err(), "scheduled messages: iterate")
}

func scanScheduled(row rowScanner) (*model.ScheduledMessage, error) {
	var m model.ScheduledMessage
	err := row.Scan(
		&m.ID, &m.UserID, &m.CampaignID, &m.InstanceID, &m.Name, &m.ScheduledAt, &m.Status,
		pq.Array(&m.SelectedTypes), &m.Messages, &m.MediaURL, &m.DelayMin, &m.DelayMax, &m.TotalLeads, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

var _ ScheduledMessageRepositoryInterface = (*ScheduledMessageRepository)(nil)
