package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/priyen27/taskflow360-backend/errs"
)

type Suggester interface {
	SuggestTasks(ctx context.Context, name, description string) ([]string, error)
}

type SuggestionHandler struct {
	Service Suggester
}

func NewSuggestionHandler(service Suggester) *SuggestionHandler {
	return &SuggestionHandler{Service: service}
}

type suggestRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (h *SuggestionHandler) SuggestTasks(w http.ResponseWriter, r *http.Request) {
	if _, err := requestIdentity(r); err != nil {
		writeError(w, r, err)
		return
	}

	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errs.Validation("invalid request payload"))
		return
	}

	suggestions, err := h.Service.SuggestTasks(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions})
}
