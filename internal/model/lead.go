// internal/model/lead.go
package model

import "time"

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadReplied   LeadStatus = "replied"
	LeadConverted LeadStatus = "converted"
	LeadDiscarded LeadStatus = "discarded"
)

// Valid reports whether s is one of the known lead statuses.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadReplied, LeadConverted, LeadDiscarded:
		return true
	}
	return false
}

// Lead is one discovered contact. Phone is the natural key inside a campaign.
type Lead struct {
	ID              string     `db:"id" json:"id"`
	UserID          string     `db:"user_id" json:"user_id"`
	CampaignID      string     `db:"campaign_id" json:"campaign_id"`
	Phone           string     `db:"phone" json:"phone"`
	Name            string     `db:"name" json:"name"`
	BusinessName    string     `db:"business_name" json:"business_name"`
	Bio             string     `db:"bio" json:"bio"`
	Source          string     `db:"source" json:"source"`
	SourceURL       string     `db:"source_url" json:"source_url"`
	SourceMetadata  Metadata   `db:"source_metadata" json:"source_metadata"`
	RelevanceScore  float64    `db:"relevance_score" json:"relevance_score"`
	MatchedKeywords []string   `db:"matched_keywords" json:"matched_keywords"`
	Status          LeadStatus `db:"status" json:"status"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// BusinessType returns the raw declared business type from the source metadata.
func (l Lead) BusinessType() string {
	if l.SourceMetadata == nil {
		return ""
	}
	s, _ := l.SourceMetadata["business_type"].(string)
	return s
}
