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

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *model.Campaign) error
	GetByID(ctx context.Context, userID, id string) (*model.Campaign, error)
	ListByUser(ctx context.Context, userID string) ([]model.Campaign, error)
	UpdateStatus(ctx context.Context, id string, status model.CampaignStatus) error
	Delete(ctx context.Context, userID, id string) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, user_id, instance_id, name, keywords, sources, location, radius_km,
	status, total_leads, unique_leads, metadata, created_at, started_at, completed_at`

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = model.CampaignPending
	}
	c.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO lead_campaigns (id, user_id, instance_id, name, keywords, sources, location, radius_km, status, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.UserID, c.InstanceID, c.Name, pq.Array(c.Keywords), pq.Array(c.Sources),
		c.Location, c.RadiusKm, c.Status, c.Metadata, c.CreatedAt,
	)
	return eris.Wrap(err, "campaigns: insert")
}

func (r *CampaignRepository) GetByID(ctx context.Context, userID, id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM lead_campaigns WHERE id=$1 AND user_id=$2`
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, eris.Wrap(err, "campaigns: get")
	}
	return c, nil
}

func (r *CampaignRepository) ListByUser(ctx context.Context, userID string) ([]model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM lead_campaigns WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, eris.Wrap(err, "campaigns: list")
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, eris.Wrap(err, "campaigns: scan")
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, eris.Wrap(rows.Err(), "campaigns: iterate")
}

// UpdateStatus also stamps started_at when a campaign starts running and
// completed_at when it completes.
func (r *CampaignRepository) UpdateStatus(ctx context.Context, id string, status model.CampaignStatus) error {
	query := `UPDATE lead_campaigns SET status=$1 WHERE id=$2`
	args := []any{status, id}
	switch status {
	case model.CampaignRunning:
		query = `UPDATE lead_campaigns SET status=$1, started_at=$3 WHERE id=$2`
		args = append(args, time.Now().UTC())
	case model.CampaignCompleted:
		query = `UPDATE lead_campaigns SET status=$1, completed_at=$3 WHERE id=$2`
		args = append(args, time.Now().UTC())
	}
	_, err := r.DB.ExecContext(ctx, query, args...)
	return eris.Wrap(err, "campaigns: update status")
}

// Delete removes the campaign; its leads go with it (ON DELETE CASCADE).
func (r *CampaignRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM lead_campaigns WHERE id=$1 AND user_id=$2`, id, userID)
	if isMalformedID(err) {
		return appErrors.NewCampaignNotFound(id)
	}
	if err != nil {
		return eris.Wrap(err, "campaigns: delete")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "campaigns: delete rows affected")
	}
	if n == 0 {
		return appErrors.NewCampaignNotFound(id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.ID, &c.UserID, &c.InstanceID, &c.Name, pq.Array(&c.Keywords), pq.Array(&c.Sources),
		&c.Location, &c.RadiusKm, &c.Status, &c.TotalLeads, &c.UniqueLeads, &c.Metadata,
		&c.CreatedAt, &c.StartedAt, &c.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
