package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/leadreach-backend/internal/client"
	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/model"
	"github.com/unclebandit/leadreach-backend/internal/repository"
	"github.com/unclebandit/leadreach-backend/internal/segment"
)

// DispatchService sends personalized messages to a selection of leads right away.
type DispatchService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	LeadRepo     repository.LeadRepositoryInterface
	SendRepo     repository.SendCampaignRepositoryInterface
	Sender       client.Sender
	Now          func() time.Time
}

// DispatchResult reports what was handed to the sender.
type DispatchResult struct {
	SendCampaignID string `json:"send_campaign_id"`
	Contacts       int    `json:"contacts"`
}

func (s *DispatchService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Dispatch filters leads by segment, personalizes one message each, records the
// send campaign and its contacts, then invokes the sender. Marking leads as
// contacted afterwards is best effort.
func (s *DispatchService) Dispatch(ctx context.Context, userID, instanceID string, leads []model.Lead, cfg TargetingConfig) (*DispatchResult, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	if strings.TrimSpace(instanceID) == "" {
		return nil, appErrors.NewValidation("instance_id", "is required")
	}
	targets, err := selectTargets(leads, cfg)
	if err != nil {
		return nil, err
	}

	sc := &model.SendCampaign{
		UserID:        userID,
		InstanceID:    instanceID,
		Name:          sendName(cfg.Name, s.now()),
		Status:        model.SendQueued,
		TotalContacts: len(targets),
		DelayMin:      cfg.DelayMin,
		DelayMax:      cfg.DelayMax,
		MediaURL:      cfg.MediaURL,
	}

	contacts := make([]model.SendContact, 0, len(targets))
	bulk := make([]model.BulkContact, 0, len(targets))
	custom := make(map[string]string, len(targets))
	ids := make([]string, 0, len(targets))
	for _, l := range targets {
		msg := Personalize(cfg.Template(segment.Of(l)), l)
		contacts = append(contacts, model.SendContact{
			LeadID:  l.ID,
			Phone:   l.Phone,
			Name:    l.Name,
			Message: msg,
		})
		bulk = append(bulk, model.BulkContact{
			Phone:     l.Phone,
			Name:      l.Name,
			Variables: map[string]string{"nome": displayName(l)},
		})
		custom[l.Phone] = msg
		ids = append(ids, l.ID)
	}

	if err := s.SendRepo.CreateWithContacts(ctx, sc, contacts); err != nil {
		return nil, err
	}

	req := model.BulkSendRequest{
		Action:            "bulk",
		CampaignID:        sc.ID,
		InstanceID:        instanceID,
		Contacts:          bulk,
		Message:           cfg.Templates[cfg.Segments[0]],
		UseCustomMessages: true,
		CustomMessages:    custom,
		MediaURL:          cfg.MediaURL,
		MinDelay:          cfg.DelayMin,
		MaxDelay:          cfg.DelayMax,
	}
	if err := s.Sender.SendBulk(ctx, req); err != nil {
		if ferr := s.SendRepo.UpdateStatus(ctx, sc.ID, model.SendFailed); ferr != nil {
			zap.L().Warn("dispatch: mark send campaign failed", zap.String("send_campaign_id", sc.ID), zap.Error(ferr))
		}
		return nil, upstreamError("sender", err)
	}

	// Messages may already be in flight; a failure here must not undo the send.
	if err := s.LeadRepo.MarkContacted(ctx, userID, ids); err != nil {
		zap.L().Error("dispatch: mark leads contacted", zap.String("send_campaign_id", sc.ID), zap.Error(err))
	}

	zap.L().Info("dispatch: bulk send accepted",
		zap.String("send_campaign_id", sc.ID),
		zap.String("instance_id", instanceID),
		zap.Int("contacts", len(contacts)),
	)
	return &DispatchResult{SendCampaignID: sc.ID, Contacts: len(contacts)}, nil
}

// DispatchCampaignLeads loads the campaign's leads and dispatches to them.
func (s *DispatchService) DispatchCampaignLeads(ctx context.Context, userID, campaignID, instanceID string, cfg TargetingConfig) (*DispatchResult, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	if _, err := s.CampaignRepo.GetByID(ctx, userID, campaignID); err != nil {
		return nil, err
	}
	leads, err := s.LeadRepo.List(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	return s.Dispatch(ctx, userID, instanceID, leads, cfg)
}

func sendName(name string, at time.Time) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return "Envio " + at.Format("2006-01-02 15:04")
}
