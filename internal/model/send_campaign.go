// internal/model/send_campaign.go
package model

import "time"

type SendStatus string

const (
	SendQueued SendStatus = "queued"
	SendFailed SendStatus = "failed"
)

// SendCampaign is the parent record handed to the sending service.
type SendCampaign struct {
	ID            string     `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"user_id"`
	InstanceID    string     `db:"instance_id" json:"instance_id"`
	Name          string     `db:"name" json:"name"`
	Status        SendStatus `db:"status" json:"status"`
	TotalContacts int        `db:"total_contacts" json:"total_contacts"`
	DelayMin      int        `db:"delay_min" json:"delay_min"`
	DelayMax      int        `db:"delay_max" json:"delay_max"`
	MediaURL      *string    `db:"media_url" json:"media_url,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// SendContact carries one already-personalized message.
type SendContact struct {
	ID             string    `db:"id" json:"id"`
	SendCampaignID string    `db:"send_campaign_id" json:"send_campaign_id"`
	LeadID         string    `db:"lead_id" json:"lead_id"`
	Phone          string    `db:"phone" json:"phone"`
	Name           string    `db:"name" json:"name"`
	Message        string    `db:"message" json:"message"`
	Status         string    `db:"status" json:"status"` // pending until the sender reports back
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// BulkContact is one recipient in a bulk send request.
type BulkContact struct {
	Phone     string            `json:"phone"`
	Name      string            `json:"name"`
	Variables map[string]string `json:"variables"`
}

// BulkSendRequest is the payload understood by the sending service.
type BulkSendRequest struct {
	Action            string            `json:"action"`
	CampaignID        string            `json:"campaignId"`
	InstanceID        string            `json:"instanceId"`
	Contacts          []BulkContact     `json:"contacts"`
	Message           string            `json:"message"`
	UseCustomMessages bool              `json:"useCustomMessages"`
	CustomMessages    map[string]string `json:"customMessages"`
	MediaURL          *string           `json:"mediaUrl,omitempty"`
	MinDelay          int               `json:"minDelay"`
	MaxDelay          int               `json:"maxDelay"`
}
