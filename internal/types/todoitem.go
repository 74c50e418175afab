package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TodoSourceUser      = "user"
	TodoSourceAssistant = "assistant"
)

type TodoItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_todo_item_user_hash,priority:1" json:"user_id"`
	User        *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	SessionID   *uuid.UUID     `gorm:"type:uuid;index" json:"session_id,omitempty"`
	Content     string         `gorm:"column:content;not null" json:"content"`
	ContentHash string         `gorm:"column:content_hash;not null;index:idx_todo_item_user_hash,priority:2" json:"-"`
	Done        bool           `gorm:"column:done;not null;default:false" json:"done"`
	Source      string         `gorm:"column:source;not null;default:user" json:"source"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TodoItem) TableName() string { return "todo_item" }
