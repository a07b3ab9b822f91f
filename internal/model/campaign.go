// internal/model/campaign.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type CampaignStatus string

const (
	CampaignPending   CampaignStatus = "pending"
	CampaignRunning   CampaignStatus = "running"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// CampaignMetadata is stored as JSONB next to the campaign row.
type CampaignMetadata struct {
	Categories []string `json:"categories,omitempty"`
	UseAI      bool     `json:"use_ai"`
}

func (m CampaignMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *CampaignMetadata) Scan(src any) error {
	return scanJSON(src, m)
}

// Campaign is one extraction run owned by a user.
type Campaign struct {
	ID          string           `db:"id" json:"id"`
	UserID      string           `db:"user_id" json:"user_id"`
	InstanceID  *string          `db:"instance_id" json:"instance_id,omitempty"`
	Name        string           `db:"name" json:"name"`
	Keywords    []string         `db:"keywords" json:"keywords"`
	Sources     []string         `db:"sources" json:"sources"`
	Location    *string          `db:"location" json:"location,omitempty"`
	RadiusKm    *int             `db:"radius_km" json:"radius_km,omitempty"`
	Status      CampaignStatus   `db:"status" json:"status"`
	TotalLeads  int              `db:"total_leads" json:"total_leads"`
	UniqueLeads int              `db:"unique_leads" json:"unique_leads"`
	Metadata    CampaignMetadata `db:"metadata" json:"metadata"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	StartedAt   *time.Time       `db:"started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
}
