package entity

import (
	"time"

	"github.com/google/uuid"
)

type TeamRole string

const (
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleEditor TeamRole = "editor"
	TeamRoleViewer TeamRole = "viewer"
)

type TeamMember struct {
	Id       uuid.UUID
	TeamId   uuid.UUID
	Name     string
	Email    string
	Role     TeamRole
	JoinedAt time.Time
}
