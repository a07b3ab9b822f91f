package service_test

import (
	"context"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/leadreach-backend/internal/client"
	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/model"
	"github.com/unclebandit/leadreach-backend/internal/repository"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var fixedNow = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// MockCampaignRepo keeps campaigns in memory.
type MockCampaignRepo struct {
	campaigns map[string]*model.Campaign
	statuses  []model.CampaignStatus
	seq       int
}

func NewMockCampaignRepo(seed ...model.Campaign) *MockCampaignRepo {
	m := &MockCampaignRepo{campaigns: map[string]*model.Campaign{}}
	for i := range seed {
		c := seed[i]
		m.campaigns[c.ID] = &c
	}
	return m
}

func (m *MockCampaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	m.seq++
	c.ID = "campaign-" + strconv.Itoa(m.seq)
	c.CreatedAt = fixedNow
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *MockCampaignRepo) GetByID(ctx context.Context, userID, id string) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok || c.UserID != userID {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (m *MockCampaignRepo) ListByUser(ctx context.Context, userID string) ([]model.Campaign, error) {
	out := []model.Campaign{}
	for _, c := range m.campaigns {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockCampaignRepo) UpdateStatus(ctx context.Context, id string, status model.CampaignStatus) error {
	m.statuses = append(m.statuses, status)
	if c, ok := m.campaigns[id]; ok {
		c.Status = status
	}
	return nil
}

func (m *MockCampaignRepo) Delete(ctx context.Context, userID, id string) error {
	c, ok := m.campaigns[id]
	if !ok || c.UserID != userID {
		return appErrors.NewCampaignNotFound(id)
	}
	delete(m.campaigns, id)
	return nil
}

// MockLeadRepo honours the (campaign_id, phone) uniqueness and the
// all-or-nothing ingestion transaction.
type MockLeadRepo struct {
	Campaigns *MockCampaignRepo
	IngestErr error
	MarkErr   error

	leads     []model.Lead
	contacted []string
	ingests   int
	received  []model.Lead
}

func (m *MockLeadRepo) IngestBatch(ctx context.Context, campaignID string, leads []model.Lead, totalFound int, at time.Time) (*repository.IngestResult, error) {
	m.ingests++
	m.received = append(m.received, leads...)
	if m.IngestErr != nil {
		return nil, m.IngestErr
	}

	seen := map[string]bool{}
	for _, l := range m.leads {
		if l.CampaignID == campaignID {
			seen[l.Phone] = true
		}
	}
	res := &repository.IngestResult{TotalLeads: totalFound}
	staged := append([]model.Lead{}, m.leads...)
	for i, l := range leads {
		if seen[l.Phone] {
			res.Skipped++
			continue
		}
		seen[l.Phone] = true
		l.ID = campaignID + "-lead-" + strconv.Itoa(len(staged)+i)
		l.CampaignID = campaignID
		l.Status = model.LeadNew
		l.CreatedAt = at
		staged = append(staged, l)
		res.Inserted++
	}
	m.leads = staged
	for _, l := range m.leads {
		if l.CampaignID == campaignID {
			res.UniqueLeads++
		}
	}

	if m.Campaigns != nil {
		if c, ok := m.Campaigns.campaigns[campaignID]; ok {
			c.UniqueLeads = res.UniqueLeads
			c.TotalLeads = totalFound
			c.Status = model.CampaignCompleted
			c.CompletedAt = &at
		}
	}
	return res, nil
}

func (m *MockLeadRepo) List(ctx context.Context, userID, campaignID string) ([]model.Lead, error) {
	out := []model.Lead{}
	for _, l := range m.leads {
		if l.UserID == userID && (campaignID == "" || l.CampaignID == campaignID) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RelevanceScore > out[j].RelevanceScore })
	return out, nil
}

func (m *MockLeadRepo) UpdateStatus(ctx context.Context, userID, id string, status model.LeadStatus) error {
	for i := range m.leads {
		if m.leads[i].ID == id && m.leads[i].UserID == userID {
			m.leads[i].Status = status
			return nil
		}
	}
	return appErrors.NewNotFound("lead", id)
}

func (m *MockLeadRepo) MarkContacted(ctx context.Context, userID string, ids []string) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.contacted = append(m.contacted, ids...)
	return nil
}

// MockSendRepo records send campaigns and contacts.
type MockSendRepo struct {
	CreateErr error

	campaigns []model.SendCampaign
	contacts  []model.SendContact
	statuses  map[string]model.SendStatus
}

func (m *MockSendRepo) CreateWithContacts(ctx context.Context, sc *model.SendCampaign, contacts []model.SendContact) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	sc.ID = "send-" + strconv.Itoa(len(m.campaigns)+1)
	for i := range contacts {
		contacts[i].SendCampaignID = sc.ID
		contacts[i].Status = "pending"
	}
	m.campaigns = append(m.campaigns, *sc)
	m.contacts = append(m.contacts, contacts...)
	return nil
}

func (m *MockSendRepo) UpdateStatus(ctx context.Context, id string, status model.SendStatus) error {
	if m.statuses == nil {
		m.statuses = map[string]model.SendStatus{}
	}
	m.statuses[id] = status
	return nil
}

// MockSender captures bulk requests.
type MockSender struct {
	Err      error
	Requests []model.BulkSendRequest
}

func (m *MockSender) SendBulk(ctx context.Context, req model.BulkSendRequest) error {
	m.Requests = append(m.Requests, req)
	return m.Err
}

// MockScraper returns a canned response.
type MockScraper struct {
	Resp *client.ScrapeResponse
	Err  error
	Got  []client.ScrapeRequest
}

func (m *MockScraper) Scrape(ctx context.Context, req client.ScrapeRequest) (*client.ScrapeResponse, error) {
	m.Got = append(m.Got, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Resp, nil
}

// MockScheduleRepo keeps scheduled batches in memory.
type MockScheduleRepo struct {
	rows []model.ScheduledMessage
}

func (m *MockScheduleRepo) Create(ctx context.Context, msg *model.ScheduledMessage) error {
	msg.ID = "sched-" + strconv.Itoa(len(m.rows)+1)
	msg.Status = model.SchedulePending
	msg.CreatedAt = fixedNow
	m.rows = append(m.rows, *msg)
	return nil
}

func (m *MockScheduleRepo) find(userID, id string) int {
	for i, r := range m.rows {
		if r.ID == id && r.UserID == userID {
			return i
		}
	}
	return -1
}

func (m *MockScheduleRepo) GetByID(ctx context.Context, userID, id string) (*model.ScheduledMessage, error) {
	i := m.find(userID, id)
	if i < 0 {
		return nil, appErrors.NewNotFound("scheduled message", id)
	}
	r := m.rows[i]
	return &r, nil
}

func (m *MockScheduleRepo) List(ctx context.Context, userID string, status model.ScheduleStatus) ([]model.ScheduledMessage, error) {
	out := []model.ScheduledMessage{}
	for _, r := range m.rows {
		if r.UserID == userID && (status == "" || r.Status == status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockScheduleRepo) Transition(ctx context.Context, userID, id string, from, to model.ScheduleStatus) (bool, error) {
	i := m.find(userID, id)
	if i < 0 {
		return false, appErrors.NewNotFound("scheduled message", id)
	}
	if m.rows[i].Status != from {
		return false, nil
	}
	m.rows[i].Status = to
	return true, nil
}

func (m *MockScheduleRepo) Delete(ctx context.Context, userID, id string) error {
	i := m.find(userID, id)
	if i < 0 {
		return appErrors.NewNotFound("scheduled message", id)
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return nil
}

func (m *MockScheduleRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]model.ScheduledMessage, error) {
	out := []model.ScheduledMessage{}
	for _, r := range m.rows {
		if r.Status == model.SchedulePending && !r.ScheduledAt.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockScheduleRepo) MarkSent(ctx context.Context, id string) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Status = model.ScheduleSent
		}
	}
	return nil
}

var (
	_ repository.CampaignRepositoryInterface         = (*MockCampaignRepo)(nil)
	_ repository.LeadRepositoryInterface             = (*MockLeadRepo)(nil)
	_ repository.SendCampaignRepositoryInterface     = (*MockSendRepo)(nil)
	_ repository.ScheduledMessageRepositoryInterface = (*MockScheduleRepo)(nil)
	_ client.Sender                                  = (*MockSender)(nil)
	_ client.Scraper                                 = (*MockScraper)(nil)
)

func lead(id, name, businessType string) model.Lead {
	return model.Lead{
		ID:             id,
		UserID:         "user-1",
		Phone:          "55" + id,
		Name:           name,
		SourceMetadata: model.Metadata{"business_type": businessType},
	}
}

func strPtr(s string) *string { return &s }
