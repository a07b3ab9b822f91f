// internal/service/campaign_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/unclebandit/leadreach-backend/internal/client"
	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/model"
	"github.com/unclebandit/leadreach-backend/internal/repository"
)

// CampaignService runs extraction campaigns and ingests their leads.
type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	LeadRepo     repository.LeadRepositoryInterface
	Scraper      client.Scraper
	Now          func() time.Time
}

// CreateCampaignInput describes one extraction run.
type CreateCampaignInput struct {
	Name       string   `json:"name" validate:"required"`
	InstanceID *string  `json:"instance_id,omitempty"`
	Keywords   []string `json:"keywords" validate:"required,min=1,dive,required"`
	Sources    []string `json:"sources"`
	Categories []string `json:"categories"`
	Location   *string  `json:"location,omitempty"`
	RadiusKm   *int     `json:"radius_km,omitempty" validate:"omitempty,gt=0"`
	UseAI      bool     `json:"use_ai"`
}

// RunResult is the outcome of RunCampaign.
type RunResult struct {
	Campaign     *model.Campaign          `json:"campaign"`
	Ingest       *repository.IngestResult `json:"ingest"`
	TotalScanned int                      `json:"total_scanned"`
}

func (s *CampaignService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RunCampaign creates a campaign, invokes the scraper and ingests what it found.
// A scraper failure pauses the campaign and returns an UpstreamError.
func (s *CampaignService) RunCampaign(ctx context.Context, userID string, in CreateCampaignInput) (*RunResult, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	c := &model.Campaign{
		UserID:     userID,
		InstanceID: in.InstanceID,
		Name:       strings.TrimSpace(in.Name),
		Keywords:   in.Keywords,
		Sources:    in.Sources,
		Location:   in.Location,
		RadiusKm:   in.RadiusKm,
		Status:     model.CampaignPending,
		Metadata:   model.CampaignMetadata{Categories: in.Categories, UseAI: in.UseAI},
	}
	if c.Sources == nil {
		c.Sources = []string{}
	}
	if err := s.CampaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	if err := s.CampaignRepo.UpdateStatus(ctx, c.ID, model.CampaignRunning); err != nil {
		return nil, err
	}
	started := s.now()
	c.Status = model.CampaignRunning
	c.StartedAt = &started

	req := client.ScrapeRequest{
		Keywords:   in.Keywords,
		Categories: in.Categories,
		UseAI:      in.UseAI,
	}
	if in.InstanceID != nil {
		req.InstanceID = *in.InstanceID
	}

	zap.L().Info("campaign: scraping",
		zap.String("campaign_id", c.ID),
		zap.Strings("keywords", in.Keywords),
		zap.Bool("use_ai", in.UseAI),
	)

	resp, err := s.Scraper.Scrape(ctx, req)
	if err != nil {
		if perr := s.CampaignRepo.UpdateStatus(ctx, c.ID, model.CampaignPaused); perr != nil {
			zap.L().Warn("campaign: pause after scrape failure", zap.String("campaign_id", c.ID), zap.Error(perr))
		}
		return nil, upstreamError("scraper", err)
	}

	leads := make([]model.Lead, 0, len(resp.Leads))
	for _, sl := range resp.Leads {
		leads = append(leads, leadFromScrape(sl))
	}
	total := resp.Stats.TotalMatching
	if total <= 0 {
		total = len(leads)
	}

	res, err := s.Ingest(ctx, userID, c.ID, leads, total)
	if err != nil {
		if perr := s.CampaignRepo.UpdateStatus(ctx, c.ID, model.CampaignPaused); perr != nil {
			zap.L().Warn("campaign: pause after ingest failure", zap.String("campaign_id", c.ID), zap.Error(perr))
		}
		return nil, err
	}

	if len(leads) == 0 {
		// Nothing to ingest; close the run so it does not stay running.
		if err := s.CampaignRepo.UpdateStatus(ctx, c.ID, model.CampaignCompleted); err != nil {
			return nil, err
		}
	}

	completed := s.now()
	c.Status = model.CampaignCompleted
	c.CompletedAt = &completed
	c.UniqueLeads = res.UniqueLeads
	c.TotalLeads = res.TotalLeads

	return &RunResult{Campaign: c, Ingest: res, TotalScanned: resp.Stats.TotalScanned}, nil
}

func leadFromScrape(sl client.ScrapedLead) model.Lead {
	keywords := sl.MatchedKeywords
	if keywords == nil {
		keywords = []string{}
	}
	return model.Lead{
		Phone:           strings.TrimSpace(sl.Phone),
		Name:            sl.Name,
		BusinessName:    sl.BusinessName,
		Bio:             sl.Bio,
		Source:          sl.Source,
		SourceURL:       sl.SourceURL,
		SourceMetadata:  model.Metadata(sl.Metadata),
		RelevanceScore:  sl.RelevanceScore,
		MatchedKeywords: keywords,
	}
}

// Ingest stores the candidates not yet present for (campaign, phone) and
// refreshes the campaign counters. An empty list writes nothing.
func (s *CampaignService) Ingest(ctx context.Context, userID, campaignID string, leads []model.Lead, totalFound int) (*repository.IngestResult, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	if _, err := s.CampaignRepo.GetByID(ctx, userID, campaignID); err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return &repository.IngestResult{}, nil
	}

	batch := make([]model.Lead, len(leads))
	for i, l := range leads {
		l.Phone = strings.TrimSpace(l.Phone)
		if l.Phone == "" {
			return nil, appErrors.NewValidation(fmt.Sprintf("leads[%d].phone", i), "is required")
		}
		// Identity, lifecycle and timestamps belong to the store.
		l.ID = ""
		l.UserID = userID
		l.CampaignID = campaignID
		l.Status = model.LeadNew
		l.CreatedAt = time.Time{}
		l.UpdatedAt = time.Time{}
		batch[i] = l
	}
	if totalFound <= 0 {
		totalFound = len(batch)
	}

	res, err := s.LeadRepo.IngestBatch(ctx, campaignID, batch, totalFound, s.now())
	if err != nil {
		return nil, err
	}

	zap.L().Info("campaign: leads ingested",
		zap.String("campaign_id", campaignID),
		zap.Int("inserted", res.Inserted),
		zap.Int("skipped", res.Skipped),
		zap.Int("unique_leads", res.UniqueLeads),
		zap.Int("total_leads", res.TotalLeads),
	)
	return res, nil
}

// ListCampaigns returns the user's campaigns, newest first.
func (s *CampaignService) ListCampaigns(ctx context.Context, userID string) ([]model.Campaign, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	return s.CampaignRepo.ListByUser(ctx, userID)
}

func (s *CampaignService) GetCampaign(ctx context.Context, userID, id string) (*model.Campaign, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	return s.CampaignRepo.GetByID(ctx, userID, id)
}

// DeleteCampaign removes the campaign and, by cascade, its leads.
func (s *CampaignService) DeleteCampaign(ctx context.Context, userID, id string) error {
	if userID == "" {
		return appErrors.ErrUnauthenticated
	}
	return s.CampaignRepo.Delete(ctx, userID, id)
}

// ListLeads returns leads by descending relevance. An empty campaignID lists all of the user's leads.
func (s *CampaignService) ListLeads(ctx context.Context, userID, campaignID string) ([]model.Lead, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	if campaignID != "" {
		if _, err := s.CampaignRepo.GetByID(ctx, userID, campaignID); err != nil {
			return nil, err
		}
	}
	return s.LeadRepo.List(ctx, userID, campaignID)
}

func (s *CampaignService) UpdateLeadStatus(ctx context.Context, userID, leadID string, status model.LeadStatus) error {
	if userID == "" {
		return appErrors.ErrUnauthenticated
	}
	if !status.Valid() {
		return appErrors.NewValidation("status", fmt.Sprintf("unknown value %s", status))
	}
	return s.LeadRepo.UpdateStatus(ctx, userID, leadID, status)
}

// upstreamError turns a client failure into an UpstreamError for the named service.
func upstreamError(service string, err error) error {
	var up *appErrors.UpstreamError
	if errors.As(err, &up) {
		return up
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return appErrors.NewUpstream(service, apiErr.StatusCode, apiErr.Body)
	}
	return appErrors.NewUpstream(service, 0, eris.Cause(err).Error())
}
