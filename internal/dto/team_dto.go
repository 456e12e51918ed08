package dto

import (
	"time"

	"github.com/google/uuid"
)

type TeamMemberDTO struct {
	Id       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type AddTeamMemberRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin editor viewer"`
}

type AddTeamMemberResponse struct {
	Id uuid.UUID `json:"id"`
}
