package client

import (
	"context"

	"github.com/rotisserie/eris"

	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/model"
)

// Sender hands a bulk send to the messaging function.
type Sender interface {
	SendBulk(ctx context.Context, req model.BulkSendRequest) error
}

type sendResponse struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

type senderClient struct {
	*httpClient
}

// NewSenderClient creates a client for the sending function at url.
func NewSenderClient(url, apiKey string, opts ...Option) Sender {
	return &senderClient{httpClient: newHTTPClient(url, apiKey, opts)}
}

// SendBulk posts the request. A 2xx reply without an explicit success:false counts as accepted.
func (c *senderClient) SendBulk(ctx context.Context, req model.BulkSendRequest) error {
	var resp sendResponse
	if err := c.post(ctx, req, &resp); err != nil {
		return eris.Wrap(err, "sender: bulk send")
	}
	if resp.Success != nil && !*resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "send rejected"
		}
		return appErrors.NewUpstream("sender", 0, msg)
	}
	return nil
}
