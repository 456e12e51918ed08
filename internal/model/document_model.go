package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string         `gorm:"type:varchar(255);not null"`
	Type         string         `gorm:"type:varchar(50);not null"`
	Status       string         `gorm:"type:varchar(50);not null;default:'processing';index"`
	Content      string         `gorm:"type:text"`
	Version      int            `gorm:"not null;default:1"`
	AiSummary    *string        `gorm:"type:text"`
	Confidence   *float64       `gorm:"type:numeric(4,3)"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	TeamId       *uuid.UUID     `gorm:"type:uuid;index"`
	ModifiedBy   *uuid.UUID     `gorm:"type:uuid"`
	UploadDate   time.Time      `gorm:"autoCreateTime"`
	LastModified time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
