package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/priyen27/taskflow360-backend/auth"
	"github.com/priyen27/taskflow360-backend/services"
)

// Aggregator is the slice of AnalyticsService the handlers need.
type Aggregator interface {
	TaskSummary(ctx context.Context, identity auth.Identity) ([]services.ProjectTaskSummary, error)
	OverdueTasks(ctx context.Context, identity auth.Identity, now time.Time) ([]services.OverdueTask, error)
}

type AnalyticsHandler struct {
	Service Aggregator
}

func NewAnalyticsHandler(service Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{Service: service}
}

func (h *AnalyticsHandler) GetTaskSummary(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summaries, err := h.Service.TaskSummary(r.Context(), identity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (h *AnalyticsHandler) GetOverdueTasks(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tasks, err := h.Service.OverdueTasks(r.Context(), identity, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}
