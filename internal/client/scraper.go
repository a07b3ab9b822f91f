package client

import (
	"context"

	"github.com/rotisserie/eris"

	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
)

// Scraper invokes the lead extraction function.
type Scraper interface {
	Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResponse, error)
}

// ScrapeRequest is the body posted to the extraction function.
type ScrapeRequest struct {
	InstanceID string   `json:"instanceId,omitempty"`
	Keywords   []string `json:"keywords"`
	Categories []string `json:"categories"`
	UseAI      bool     `json:"useAI"`
}

// ScrapeResponse is what the extraction function returns.
type ScrapeResponse struct {
	Success bool          `json:"success"`
	Leads   []ScrapedLead `json:"leads"`
	Stats   ScrapeStats   `json:"stats"`
	Error   string        `json:"error,omitempty"`
}

// ScrapeStats summarises one extraction run.
type ScrapeStats struct {
	TotalScanned  int `json:"total_scanned"`
	TotalMatching int `json:"total_matching"`
}

// ScrapedLead is one candidate contact as reported by the extractor.
type ScrapedLead struct {
	Phone           string         `json:"phone"`
	Name            string         `json:"name"`
	BusinessName    string         `json:"business_name"`
	Bio             string         `json:"bio"`
	Source          string         `json:"source"`
	SourceURL       string         `json:"source_url"`
	Metadata        map[string]any `json:"metadata"`
	RelevanceScore  float64        `json:"relevance_score"`
	MatchedKeywords []string       `json:"matched_keywords"`
}

type scraperClient struct {
	*httpClient
}

// NewScraperClient creates a client for the extraction function at url.
func NewScraperClient(url, apiKey string, opts ...Option) Scraper {
	return &scraperClient{httpClient: newHTTPClient(url, apiKey, opts)}
}

func (c *scraperClient) Scrape(ctx context.Context, req ScrapeRequest) (*ScrapeResponse, error) {
	var resp ScrapeResponse
	if err := c.post(ctx, req, &resp); err != nil {
		return nil, eris.Wrap(err, "scraper: extract leads")
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "extraction reported failure"
		}
		return nil, appErrors.NewUpstream("scraper", 0, msg)
	}
	return &resp, nil
}
