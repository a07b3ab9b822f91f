// internal/controller/router.go
package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/handler"
)

// UserHeader carries the caller identity, set by the trusted gateway in front of the API.
const UserHeader = "X-User-ID"

type ctxKey struct{}

// UserID returns the authenticated user id stored by RequireUser.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// RequireUser rejects requests without a user identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(UserHeader))
		if id == "" {
			handler.WriteError(w, appErrors.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Router bundles the controllers mounted by NewRouter.
type Router struct {
	Campaigns *CampaignController
	Schedules *ScheduleController
	Insights  *handler.InsightsHandler
}

// NewRouter builds the API routes.
func NewRouter(rt Router) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		handler.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)

		// Campaign routes
		r.Post("/campaigns", rt.Campaigns.CreateCampaign)
		r.Get("/campaigns", rt.Campaigns.ListCampaigns)
		r.Get("/campaigns/{id}", rt.Campaigns.GetCampaign)
		r.Delete("/campaigns/{id}", rt.Campaigns.DeleteCampaign)
		r.Post("/campaigns/{id}/leads", rt.Campaigns.IngestLeads)
		r.Get("/campaigns/{id}/leads", rt.Campaigns.ListLeads)
		r.Get("/campaigns/{id}/leads.csv", rt.Campaigns.ExportLeads)
		r.Post("/campaigns/{id}/dispatch", rt.Campaigns.Dispatch)
		r.Patch("/leads/{id}/status", rt.Campaigns.UpdateLeadStatus)

		// Scheduled batches
		r.Post("/scheduled-messages", rt.Schedules.Create)
		r.Get("/scheduled-messages", rt.Schedules.List)
		r.Post("/scheduled-messages/{id}/cancel", rt.Schedules.Cancel)
		r.Delete("/scheduled-messages/{id}", rt.Schedules.Delete)

		if rt.Insights != nil {
			r.Post("/insights", rt.Insights.Generate)
		}
	})

	return r
}
