// internal/controller/campaign_controller.go
package controller

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/leadreach-backend/internal/handler"
	"github.com/unclebandit/leadreach-backend/internal/model"
	"github.com/unclebandit/leadreach-backend/internal/service"
)

type CampaignController struct {
	CampaignService *service.CampaignService
	DispatchService *service.DispatchService
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body service.CreateCampaignInput
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, err)
		return
	}

	result, err := c.CampaignService.RunCampaign(r.Context(), UserID(r.Context()), body)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusCreated, result)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.CampaignService.ListCampaigns(r.Context(), UserID(r.Context()))
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{"data": campaigns})
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := c.CampaignService.GetCampaign(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := c.CampaignService.DeleteCampaign(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		handler.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IngestLeads stores a batch of candidate leads under the campaign.
func (c *CampaignController) IngestLeads(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Leads      []model.Lead `json:"leads"`
		TotalFound int          `json:"total_found"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, err)
		return
	}

	result, err := c.CampaignService.Ingest(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"), body.Leads, body.TotalFound)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, result)
}

func (c *CampaignController) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := c.CampaignService.ListLeads(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{"data": leads})
}

// ExportLeads renders the campaign's leads as a CSV attachment.
func (c *CampaignController) ExportLeads(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	leads, err := c.CampaignService.ListLeads(r.Context(), UserID(r.Context()), id)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	// Render before writing headers so an empty export still gets a JSON error.
	var buf bytes.Buffer
	if err := service.ExportLeadsCSV(&buf, leads); err != nil {
		handler.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leads-%s.csv"`, id))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}

// Dispatch sends the personalized campaign to the selected segments of the campaign's leads.
func (c *CampaignController) Dispatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		service.TargetingConfig
		InstanceID string `json:"instance_id"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, err)
		return
	}

	result, err := c.DispatchService.DispatchCampaignLeads(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"), body.InstanceID, body.TargetingConfig)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, result)
}

func (c *CampaignController) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status model.LeadStatus `json:"status"`
	}
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, err)
		return
	}

	if err := c.CampaignService.UpdateLeadStatus(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"), body.Status); err != nil {
		handler.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
