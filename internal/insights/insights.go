// Package insights proxies fixed market-analysis prompts to a chat model and
// returns the JSON object it answers with.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
)

// Request names the analysis and the product category it is about.
type Request struct {
	Action   Action `json:"action"`
	Category string `json:"category"`
}

// Error carries the HTTP status the caller should see. Rate limits (429) and
// exhausted credits (402) keep the gateway's status; everything else is 500.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("insights: HTTP %d: %s", e.StatusCode, e.Message)
}

// Service runs insight requests. Cache may be nil.
type Service struct {
	Model Model
	Cache Cache
}

// Run renders the action's prompt, asks the model and extracts the JSON object.
func (s *Service) Run(ctx context.Context, req Request) (json.RawMessage, error) {
	if !req.Action.Valid() {
		return nil, appErrors.NewValidation("action", fmt.Sprintf("unknown value %s", req.Action))
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}
	key := cacheKey(req.Action, category)

	if s.Cache != nil {
		cached, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			zap.L().Warn("insights: cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return json.RawMessage(cached), nil
		}
	}

	system, user := req.Action.render(category)
	text, err := s.Model.Complete(ctx, system, user)
	if err != nil {
		return nil, toError(err)
	}

	obj, err := ExtractJSON(text)
	if err != nil {
		zap.L().Warn("insights: unparseable model output", zap.String("action", string(req.Action)), zap.Error(err))
		return nil, &Error{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, obj); err != nil {
			zap.L().Warn("insights: cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return obj, nil
}

func cacheKey(action Action, category string) string {
	return "insights:" + string(action) + ":" + strings.ToLower(category)
}

func toError(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return &Error{StatusCode: http.StatusTooManyRequests, Message: "rate limit exceeded, try again later"}
		case http.StatusPaymentRequired:
			return &Error{StatusCode: http.StatusPaymentRequired, Message: "AI credits exhausted"}
		}
	}
	return &Error{StatusCode: http.StatusInternalServerError, Message: err.Error()}
}
