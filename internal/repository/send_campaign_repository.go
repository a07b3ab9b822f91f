package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/unclebandit/leadreach-backend/internal/model"
)

type SendCampaignRepositoryInterface interface {
	CreateWithContacts(ctx context.Context, sc *model.SendCampaign, contacts []model.SendContact) error
	UpdateStatus(ctx context.Context, id string, status model.SendStatus) error
}

type SendCampaignRepository struct {
	DB *sql.DB
}

// CreateWithContacts inserts the parent record and one row per contact atomically.
func (r *SendCampaignRepository) CreateWithContacts(ctx context.Context, sc *model.SendCampaign, contacts []model.SendContact) error {
	now := time.Now().UTC()
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	if sc.Status == "" {
		sc.Status = model.SendQueued
	}
	sc.CreatedAt = now

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "send campaigns: begin")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO send_campaigns (id, user_id, instance_id, name, status, total_contacts, delay_min, delay_max, media_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, sc.ID, sc.UserID, sc.InstanceID, sc.Name, sc.Status, sc.TotalContacts, sc.DelayMin, sc.DelayMax, sc.MediaURL, sc.CreatedAt)
	if err != nil {
		return eris.Wrap(err, "send campaigns: insert")
	}

	for i := range contacts {
		c := &contacts[i]
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.Status == "" {
			c.Status = "pending"
		}
		c.SendCampaignID = sc.ID
		c.CreatedAt = now

		_, err := tx.ExecContext(ctx, `
			INSERT INTO send_campaign_contacts (id, send_campaign_id, lead_id, phone, name, message, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, c.ID, c.SendCampaignID, c.LeadID, c.Phone, c.Name, c.Message, c.Status, c.CreatedAt)
		if err != nil {
			return eris.Wrapf(err, "send campaigns: insert contact %s", c.Phone)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "send campaigns: commit")
	}
	return nil
}

func (r *SendCampaignRepository) UpdateStatus(ctx context.Context, id string, status model.SendStatus) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE send_campaigns SET status=$1 WHERE id=$2`, status, id)
	return eris.Wrap(err, "send campaigns: update status")
}

var _ SendCampaignRepositoryInterface = (*SendCampaignRepository)(nil)
