// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated   = errors.New("user is not authenticated")
	ErrNothingSelected   = errors.New("no leads match the selected segments")
	ErrNothingToExport   = errors.New("no leads to export")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ErrCampaignNotFound is returned when a campaign does not exist or belongs to another user.
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrNotFound covers every other row kind (lead, scheduled message).
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Kind, e.ID)
}

func NewNotFound(kind, id string) error {
	return &ErrNotFound{Kind: kind, ID: id}
}

// ValidationError reports a missing or malformed input field. Nothing has been written when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UpstreamError wraps a failure reported by the scraping or sending service.
type UpstreamError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func NewUpstream(service string, statusCode int, message string) error {
	return &UpstreamError{Service: service, StatusCode: statusCode, Message: message}
}

// IsNotFound reports whether err is any of the not-found kinds.
func IsNotFound(err error) bool {
	var campaignErr *ErrCampaignNotFound
	var notFound *ErrNotFound
	return errors.As(err, &campaignErr) || errors.As(err, &notFound)
}
