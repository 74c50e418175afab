package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_chat_message_session_seq,priority:1" json:"session_id"`
	Session     *ChatSession   `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Role        string         `gorm:"column:role;not null" json:"role"`
	Content     string         `gorm:"column:content;type:text;not null" json:"content"`
	Seq         int64          `gorm:"column:seq;not null;index:idx_chat_message_session_seq,priority:2" json:"seq"`
	Subject     string         `gorm:"column:subject" json:"subject,omitempty"`
	Topic       string         `gorm:"column:topic" json:"topic,omitempty"`
	Educational bool           `gorm:"column:educational;not null;default:false" json:"educational"`
	Repaired    bool           `gorm:"column:repaired;not null;default:false" json:"repaired"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_message" }
