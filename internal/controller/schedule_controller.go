// internal/controller/schedule_controller.go
package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/leadreach-backend/internal/handler"
	"github.com/unclebandit/leadreach-backend/internal/model"
	"github.com/unclebandit/leadreach-backend/internal/service"
)

type ScheduleController struct {
	ScheduleService *service.ScheduleService
}

func (c *ScheduleController) Create(w http.ResponseWriter, r *http.Request) {
	var body service.ScheduleInput
	if err := handler.DecodeJSON(r, &body); err != nil {
		handler.WriteError(w, err)
		return
	}

	msg, err := c.ScheduleService.ScheduleCampaignLeads(r.Context(), UserID(r.Context()), body)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusCreated, msg)
}

func (c *ScheduleController) List(w http.ResponseWriter, r *http.Request) {
	status := model.ScheduleStatus(r.URL.Query().Get("status"))

	msgs, err := c.ScheduleService.List(r.Context(), UserID(r.Context()), status)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{"data": msgs})
}

func (c *ScheduleController) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := c.ScheduleService.Cancel(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		handler.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ScheduleController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.ScheduleService.Delete(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		handler.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
