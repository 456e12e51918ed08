package model

import (
	"time"

	"github.com/google/uuid"
)

type TeamMember struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeamId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(255);not null"`
	Email    string    `gorm:"type:varchar(255);not null"`
	Role     string    `gorm:"type:varchar(50);not null;default:'viewer'"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
