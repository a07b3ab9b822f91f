package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rotisserie/eris"

	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/model"
)

// IngestResult summarises one ingestion batch.
type IngestResult struct {
	Inserted    int `json:"inserted"`
	Skipped     int `json:"skipped"`
	UniqueLeads int `json:"unique_leads"`
	TotalLeads  int `json:"total_leads"`
}

// LeadRepositoryInterface defines methods used by service
type LeadRepositoryInterface interface {
	IngestBatch(ctx context.Context, campaignID string, leads []model.Lead, totalFound int, at time.Time) (*IngestResult, error)
	List(ctx context.Context, userID, campaignID string) ([]model.Lead, error)
	UpdateStatus(ctx context.Context, userID, id string, status model.LeadStatus) error
	MarkContacted(ctx context.Context, userID string, ids []string) error
}

// LeadRepository is the concrete implementation
type LeadRepository struct {
	DB *sql.DB
}

const leadColumns = `id, user_id, campaign_id, phone, name, business_name, bio, source, source_url,
	source_metadata, relevance_score, matched_keywords, status, created_at, updated_at`

// IngestBatch inserts every lead not yet present for (campaign_id, phone), then
// refreshes the campaign counters and marks it completed. It runs in one
// transaction: on any error nothing is written.
func (r *LeadRepository) IngestBatch(ctx context.Context, campaignID string, leads []model.Lead, totalFound int, at time.Time) (*IngestResult, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "leads: begin ingest")
	}
	defer func() { _ = tx.Rollback() }()

	insert := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (campaign_id, phone) DO NOTHING
	`

	result := &IngestResult{TotalLeads: totalFound}
	for i := range leads {
		l := &leads[i]
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		if l.Status == "" {
			l.Status = model.LeadNew
		}
		l.CampaignID = campaignID
		l.CreatedAt = at
		l.UpdatedAt = at

		res, err := tx.ExecContext(ctx, insert,
			l.ID, l.UserID, l.CampaignID, l.Phone, l.Name, l.BusinessName, l.Bio, l.Source, l.SourceURL,
			l.SourceMetadata, l.RelevanceScore, pq.Array(l.MatchedKeywords), l.Status, l.CreatedAt, l.UpdatedAt,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "leads: insert %s", l.Phone)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, eris.Wrap(err, "leads: insert rows affected")
		}
		if n == 0 {
			result.Skipped++
			continue
		}
		result.Inserted++
	}

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE campaign_id=$1`, campaignID).Scan(&result.UniqueLeads); err != nil {
		return nil, eris.Wrap(err, "leads: count campaign leads")
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE lead_campaigns
		SET unique_leads=$1, total_leads=$2, status=$3, completed_at=$4
		WHERE id=$5
	`, result.UniqueLeads, totalFound, model.CampaignCompleted, at, campaignID)
	if err != nil {
		return nil, eris.Wrap(err, "leads: update campaign counters")
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "leads: commit ingest")
	}
	return result, nil
}

// List returns the user's leads ordered by relevance, optionally scoped to one campaign.
func (r *LeadRepository) List(ctx context.Context, userID, campaignID string) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE user_id=$1`
	args := []any{userID}
	if campaignID != "" {
		query += ` AND campaign_id=$2`
		args = append(args, campaignID)
	}
	query += ` ORDER BY relevance_score DESC, created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "leads: list")
	}
	defer rows.Close()

	leads := []model.Lead{}
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.CampaignID, &l.Phone, &l.Name, &l.BusinessName, &l.Bio, &l.Source, &l.SourceURL,
			&l.SourceMetadata, &l.RelevanceScore, pq.Array(&l.MatchedKeywords), &l.Status, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "leads: scan")
		}
		leads = append(leads, l)
	}
	return leads, eris.Wrap(rows.Err(), "leads: iterate")
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, userID, id string, status model.LeadStatus) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status=$1, updated_at=$2 WHERE id=$3 AND user_id=$4`,
		status, time.Now().UTC(), id, userID,
	)
	if isMalformedID(err) {
		return appErrors.NewNotFound("lead", id)
	}
	if err != nil {
		return eris.Wrap(err, "leads: update status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "leads: update status rows affected")
	}
	if n == 0 {
		return appErrors.NewNotFound("lead", id)
	}
	return nil
}

func (r *LeadRepository) MarkContacted(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status=$1, updated_at=$2 WHERE user_id=$3 AND id = ANY($4)`,
		model.LeadContacted, time.Now().UTC(), userID, pq.Array(ids),
	)
	return eris.Wrap(err, "leads: mark contacted")
}

var _ LeadRepositoryInterface = (*LeadRepository)(nil)
