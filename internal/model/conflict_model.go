package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Conflict struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type           string         `gorm:"type:varchar(50);not null"`
	Severity       string         `gorm:"type:varchar(50);not null;index"`
	Description    string         `gorm:"type:text;not null"`
	Recommendation string         `gorm:"type:text"`
	DocumentIds    datatypes.JSON `gorm:"type:jsonb;not null"` // JSON array of document uuids
	Status         string         `gorm:"type:varchar(50);not null;default:'unresolved';index"`
	UserId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	ResolvedAt     *time.Time
	ResolvedBy     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime"`
}

func (Conflict) TableName() string {
	return "conflicts"
}
