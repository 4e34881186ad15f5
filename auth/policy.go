package auth

import (
	"github.com/priyen27/taskflow360-backend/models"
)

// Decision functions for every operation kind. Each is pure and total: it
// inspects the identity and the already-loaded documents and returns a
// verdict, never an error. Precedence is fixed — platform admin beats
// creator, creator beats project role, project role beats assignee.

func CanViewProject(id Identity, p *models.Project) bool {
	if id.IsPlatformAdmin() {
		return true
	}
	return p.IsCreator(id.UserID) || p.HasMember(id.UserID)
}

// CanModifyProject covers both update and delete. Only the creator may do
// either; the platform role is deliberately irrelevant here.
func CanModifyProject(id Identity, p *models.Project) bool {
	return p.IsCreator(id.UserID)
}

func CanListMembers(id Identity, p *models.Project) bool {
	return p.IsCreator(id.UserID) || p.HasMember(id.UserID)
}

// CanInviteMember requires a project-scoped admin entry in the members list.
// The creator normally qualifies because project creation seeds them as a
// project admin.
func CanInviteMember(id Identity, p *models.Project) bool {
	role, ok := p.MemberRole(id.UserID)
	return ok && role == models.ProjectAdmin
}

func CanCreateTask(id Identity, p *models.Project) bool {
	return CanViewProject(id, p)
}

// CanAssignTask gates setting or changing a task's assignee.
func CanAssignTask(id Identity) bool {
	return id.IsPlatformAdmin()
}

func CanViewTask(id Identity, t *models.Task) bool {
	return id.IsPlatformAdmin() || t.IsAssignee(id.UserID)
}

func CanDeleteTask(id Identity, t *models.Task) bool {
	return id.IsPlatformAdmin() || t.IsAssignee(id.UserID)
}

// UpdateMode says which fields of a task the identity may change.
type UpdateMode int

const (
	// UpdateDenied rejects the whole update.
	UpdateDenied UpdateMode = iota
	// UpdateStatusOnly applies the status field and ignores everything else.
	UpdateStatusOnly
	// UpdateFull applies all fields; assignee still requires platform admin.
	UpdateFull
)

func TaskUpdateMode(id Identity, t *models.Task) UpdateMode {
	if id.IsPlatformAdmin() || t.IsCreator(id.UserID) {
		return UpdateFull
	}
	if t.IsAssignee(id.UserID) {
		return UpdateStatusOnly
	}
	return UpdateDenied
}
