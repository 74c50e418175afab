package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConceptCard struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	SessionID *uuid.UUID     `gorm:"type:uuid;index" json:"session_id,omitempty"`
	Session   *ChatSession   `gorm:"constraint:OnDelete:SET NULL;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Content   string         `gorm:"column:content;type:text;not null" json:"content"`
	Category  string         `gorm:"column:category;not null;index" json:"category"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ConceptCard) TableName() string { return "concept_card" }
