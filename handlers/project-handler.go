package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/priyen27/taskflow360-backend/auth"
	"github.com/priyen27/taskflow360-backend/errs"
	"github.com/priyen27/taskflow360-backend/models"
	"github.com/priyen27/taskflow360-backend/services"
)

// ProjectRegistry is the slice of ProjectService the handlers need.
type ProjectRegistry interface {
	ListProjects(ctx context.Context, identity auth.Identity) ([]models.Project, error)
	CreateProject(ctx context.Context, identity auth.Identity, name, description string) (*models.Project, error)
	UpdateProject(ctx context.Context, identity auth.Identity, projectID, name, description string) (*models.Project, error)
	DeleteProject(ctx context.Context, identity auth.Identity, projectID string) error
	Members(ctx context.Context, identity auth.Identity, projectID string) ([]services.MemberInfo, error)
	Invite(ctx context.Context, identity auth.Identity, projectID, email string, role models.ProjectRole) error
}

type ProjectHandler struct {
	Service ProjectRegistry
}

func NewProjectHandler(service ProjectRegistry) *ProjectHandler {
	return &ProjectHandler{Service: service}
}

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type inviteRequest struct {
	Email string             `json:"email"`
	Role  models.ProjectRole `json:"role"`
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	projects, err := h.Service.ListProjects(r.Context(), identity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errs.Validation("invalid request payload"))
		return
	}

	project, err := h.Service.CreateProject(r.Context(), identity, req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errs.Validation("invalid request payload"))
		return
	}

	project, err := h.Service.UpdateProject(r.Context(), identity, mux.Vars(r)["id"], req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Service.DeleteProject(r.Context(), identity, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Project and related tasks removed"})
}

func (h *ProjectHandler) GetProjectMembers(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	members, err := h.Service.Members(r.Context(), identity, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

func (h *ProjectHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	identity, err := requestIdentity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errs.Validation("invalid request payload"))
		return
	}
	if req.Email == "" {
		writeError(w, r, errs.Validation("email is required"))
		return
	}

	if err := h.Service.Invite(r.Context(), identity, mux.Vars(r)["id"], req.Email, req.Role); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "User invited successfully"})
}
