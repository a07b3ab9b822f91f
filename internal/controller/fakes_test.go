package controller_test

import (
	"context"
	"time"

	"github.com/unclebandit/leadreach-backend/internal/client"
	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/model"
	"github.com/unclebandit/leadreach-backend/internal/repository"
)

type fakeCampaigns struct {
	rows map[string]model.Campaign
}

func (f *fakeCampaigns) Create(ctx context.Context, c *model.Campaign) error {
	c.ID = "campaign-new"
	f.rows[c.ID] = *c
	return nil
}

func (f *fakeCampaigns) GetByID(ctx context.Context, userID, id string) (*model.Campaign, error) {
	c, ok := f.rows[id]
	if !ok || c.UserID != userID {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return &c, nil
}

func (f *fakeCampaigns) ListByUser(ctx context.Context, userID string) ([]model.Campaign, error) {
	out := []model.Campaign{}
	for _, c := range f.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCampaigns) UpdateStatus(ctx context.Context, id string, status model.CampaignStatus) error {
	c := f.rows[id]
	c.Status = status
	f.rows[id] = c
	return nil
}

func (f *fakeCampaigns) Delete(ctx context.Context, userID, id string) error {
	if _, err := f.GetByID(ctx, userID, id); err != nil {
		return err
	}
	delete(f.rows, id)
	return nil
}

type fakeLeads struct {
	rows      []model.Lead
	contacted []string
}

func (f *fakeLeads) IngestBatch(ctx context.Context, campaignID string, leads []model.Lead, totalFound int, at time.Time) (*repository.IngestResult, error) {
	res := &repository.IngestResult{TotalLeads: totalFound}
	for _, l := range leads {
		dup := false
		for _, existing := range f.rows {
			if existing.CampaignID == campaignID && existing.Phone == l.Phone {
				dup = true
				break
			}
		}
		if dup {
			res.Skipped++
			continue
		}
		l.CampaignID = campaignID
		f.rows = append(f.rows, l)
		res.Inserted++
	}
	for _, l := range f.rows {
		if l.CampaignID == campaignID {
			res.UniqueLeads++
		}
	}
	return res, nil
}

func (f *fakeLeads) List(ctx context.Context, userID, campaignID string) ([]model.Lead, error) {
	out := []model.Lead{}
	for _, l := range f.rows {
		if l.UserID == userID && (campaignID == "" || l.CampaignID == campaignID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeads) UpdateStatus(ctx context.Context, userID, id string, status model.LeadStatus) error {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == userID {
			f.rows[i].Status = status
			return nil
		}
	}
	return appErrors.NewNotFound("lead", id)
}

func (f *fakeLeads) MarkContacted(ctx context.Context, userID string, ids []string) error {
	f.contacted = append(f.contacted, ids...)
	return nil
}

type fakeSends struct {
	created  []model.SendCampaign
	contacts []model.SendContact
}

func (f *fakeSends) CreateWithContacts(ctx context.Context, sc *model.SendCampaign, contacts []model.SendContact) error {
	sc.ID = "send-1"
	f.created = append(f.created, *sc)
	f.contacts = append(f.contacts, contacts...)
	return nil
}

func (f *fakeSends) UpdateStatus(ctx context.Context, id string, status model.SendStatus) error {
	return nil
}

type fakeSender struct {
	requests []model.BulkSendRequest
	err      error
}

func (f *fakeSender) SendBulk(ctx context.Context, req model.BulkSendRequest) error {
	f.requests = append(f.requests, req)
	return f.err
}

type fakeScraper struct {
	resp *client.ScrapeResponse
	err  error
}

func (f *fakeScraper) Scrape(ctx context.Context, req client.ScrapeRequest) (*client.ScrapeResponse, error) {
	return f.resp, f.err
}

type fakeSchedules struct {
	rows []model.ScheduledMessage
}

func (f *fakeSchedules) Create(ctx context.Context, m *model.ScheduledMessage) error {
	m.ID = "sched-new"
	m.Status = model.SchedulePending
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeSchedules) GetByID(ctx context.Context, userID, id string) (*model.ScheduledMessage, error) {
	for _, m := range f.rows {
		if m.ID == id && m.UserID == userID {
			return &m, nil
		}
	}
	return nil, appErrors.NewNotFound("scheduled message", id)
}

func (f *fakeSchedules) List(ctx context.Context, userID string, status model.ScheduleStatus) ([]model.ScheduledMessage, error) {
	out := []model.ScheduledMessage{}
	for _, m := range f.rows {
		if m.UserID == userID && (status == "" || m.Status == status) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeSchedules) Transition(ctx context.Context, userID, id string, from, to model.ScheduleStatus) (bool, error) {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == userID {
			if f.rows[i].Status != from {
				return false, nil
			}
			f.rows[i].Status = to
			return true, nil
		}
	}
	return false, appErrors.NewNotFound("scheduled message", id)
}

func (f *fakeSchedules) Delete(ctx context.Context, userID, id string) error {
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return appErrors.NewNotFound("scheduled message", id)
}

func (f *fakeSchedules) ListDue(ctx context.Context, now time.Time, limit int) ([]model.ScheduledMessage, error) {
	return nil, nil
}

func (f *fakeSchedules) MarkSent(ctx context.Context, id string) error { return nil }
