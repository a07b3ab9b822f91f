// internal/model/scheduled_message.go
package model

import "time"

type ScheduleStatus string

const (
	SchedulePending   ScheduleStatus = "pending"
	ScheduleCancelled ScheduleStatus = "cancelled"
	ScheduleSent      ScheduleStatus = "sent" // set only by the external batch worker
)

// ScheduledMessage is a deferred send request. Only Status changes after creation.
type ScheduledMessage struct {
	ID            string         `db:"id" json:"id"`
	UserID        string         `db:"user_id" json:"user_id"`
	CampaignID    *string        `db:"campaign_id" json:"campaign_id,omitempty"`
	InstanceID    string         `db:"instance_id" json:"instance_id"`
	Name          string         `db:"name" json:"name"`
	ScheduledAt   time.Time      `db:"scheduled_at" json:"scheduled_at"`
	Status        ScheduleStatus `db:"status" json:"status"`
	SelectedTypes []string       `db:"selected_types" json:"selected_types"`
	Messages      Templates      `db:"messages" json:"messages"`
	MediaURL      *string        `db:"media_url" json:"media_url,omitempty"`
	DelayMin      int            `db:"delay_min" json:"delay_min"`
	DelayMax      int            `db:"delay_max" json:"delay_max"`
	TotalLeads    int            `db:"total_leads" json:"total_leads"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}
