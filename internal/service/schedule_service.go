package service

import (
	"context"
	"fmt"
	"time"

	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/model"
	"github.com/unclebandit/leadreach-backend/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ScheduleService persists deferred sends. Executing them is the batch worker's job.
type ScheduleService struct {
	ScheduleRepo repository.ScheduledMessageRepositoryInterface
	LeadRepo     repository.LeadRepositoryInterface
	Location     *time.Location
	Now          func() time.Time
}

// ScheduleInput is a targeting configuration plus the moment to send it.
type ScheduleInput struct {
	TargetingConfig
	InstanceID string  `json:"instance_id" validate:"required"`
	CampaignID *string `json:"campaign_id,omitempty"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string  `json:"time" validate:"required,datetime=15:04"`
}

func (s *ScheduleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ScheduleService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// Schedule validates and filters exactly like Dispatch, then stores one pending
// row with the raw templates and the number of matching leads.
func (s *ScheduleService) Schedule(ctx context.Context, userID string, leads []model.Lead, in ScheduleInput) (*model.ScheduledMessage, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	at, err := time.ParseInLocation(dateLayout+" "+timeLayout, in.Date+" "+in.Time, s.location())
	if err != nil {
		return nil, appErrors.NewValidation("date", err.Error())
	}
	if !at.After(s.now()) {
		return nil, appErrors.NewValidation("scheduled_at", fmt.Sprintf("%s is not in the future", at.Format(time.RFC3339)))
	}

	targets, err := selectTargets(leads, in.TargetingConfig)
	if err != nil {
		return nil, err
	}

	templates := make(model.Templates, len(in.Segments))
	for _, key := range in.Segments {
		templates[key] = in.Templates[key]
	}

	m := &model.ScheduledMessage{
		UserID:        userID,
		CampaignID:    in.CampaignID,
		InstanceID:    in.InstanceID,
		Name:          sendName(in.Name, at),
		ScheduledAt:   at.UTC(),
		SelectedTypes: in.Segments,
		Messages:      templates,
		MediaURL:      in.MediaURL,
		DelayMin:      in.DelayMin,
		DelayMax:      in.DelayMax,
		TotalLeads:    len(targets),
	}
	if err := s.ScheduleRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ScheduleCampaignLeads schedules against the leads of in.CampaignID, or all
// of the user's leads when no campaign is given.
func (s *ScheduleService) ScheduleCampaignLeads(ctx context.Context, userID string, in ScheduleInput) (*model.ScheduledMessage, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	campaignID := ""
	if in.CampaignID != nil {
		campaignID = *in.CampaignID
	}
	leads, err := s.LeadRepo.List(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	return s.Schedule(ctx, userID, leads, in)
}

// Cancel moves a pending batch to cancelled. Any other status is ErrInvalidTransition.
func (s *ScheduleService) Cancel(ctx context.Context, userID, id string) error {
	if userID == "" {
		return appErrors.ErrUnauthenticated
	}
	ok, err := s.ScheduleRepo.Transition(ctx, userID, id, model.SchedulePending, model.ScheduleCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.ErrInvalidTransition
	}
	return nil
}

func (s *ScheduleService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return appErrors.ErrUnauthenticated
	}
	return s.ScheduleRepo.Delete(ctx, userID, id)
}

// List returns the user's batches by scheduled time; an empty status lists all.
func (s *ScheduleService) List(ctx context.Context, userID string, status model.ScheduleStatus) ([]model.ScheduledMessage, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	switch status {
	case "", model.SchedulePending, model.ScheduleCancelled, model.ScheduleSent:
	default:
		return nil, appErrors.NewValidation("status", fmt.Sprintf("unknown value %s", status))
	}
	return s.ScheduleRepo.List(ctx, userID, status)
}

// Due lists pending batches whose time has passed.
func (s *ScheduleService) Due(ctx context.Context, limit int) ([]model.ScheduledMessage, error) {
	return s.ScheduleRepo.ListDue(ctx, s.now().UTC(), limit)
}
