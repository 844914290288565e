package service

import (
	"go-itstock/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated user on whose behalf an operation runs.
type Actor struct {
	ID       uuid.UUID
	Username string
	Name     string
	RoleCode string
}

// ActorFromUser builds an Actor from a loaded user (Role preloaded).
func ActorFromUser(u *model.User) Actor {
	return Actor{ID: u.ID, Username: u.Username, Name: u.DisplayName(), RoleCode: u.RoleCode()}
}

func (a Actor) IsAdmin() bool {
	return a.RoleCode == model.RoleAdmin
}

// require fails unless the actor is authenticated and, for admin-only
// operations, holds the admin role.
func (a Actor) require(role string) error {
	if a.ID == uuid.Nil {
		return ErrAuthenticationRequired
	}
	if role == model.RoleAdmin && !a.IsAdmin() {
		return ErrAuthorization
	}
	return nil
}

func (a Actor) auditName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Username
}
