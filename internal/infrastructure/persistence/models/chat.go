package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/chat"
)

// ConversationModel is the persistence model for chat conversations.
type ConversationModel struct {
	BaseModel
	ProjectID *uuid.UUID `gorm:"type:uuid;index"`
	Title     string     `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ConversationModel) TableName() string {
	return "conversations"
}

// ToDomain converts the persistence model to a domain Conversation.
func (m *ConversationModel) ToDomain() *chat.Conversation {
	return &chat.Conversation{
		BaseEntity: m.BaseModel.ToDomain(),
		ProjectID:  m.ProjectID,
		Title:      m.Title,
	}
}

// ConversationModelFromDomain creates a persistence model from a domain Conversation.
func ConversationModelFromDomain(c *chat.Conversation) *ConversationModel {
	m := &ConversationModel{ProjectID: c.ProjectID, Title: c.Title}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// MessageModel is the persistence model for chat messages. Messages are
// append-only and carry no update timestamp.
type MessageModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           chat.Role `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	Metadata       string    `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MessageModel) TableName() string {
	return "messages"
}

// ToDomain converts the persistence model to a domain Message.
func (m *MessageModel) ToDomain() *chat.Message {
	return &chat.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           m.Role,
		Content:        m.Content,
		Metadata:       decodeMap(m.Metadata),
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

// MessageModelFromDomain creates a persistence model from a domain Message.
func MessageModelFromDomain(msg *chat.Message) *MessageModel {
	return &MessageModel{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Role:           msg.Role,
		Content:        msg.Content,
		Metadata:       EncodeJSON(msg.Metadata, "{}"),
		CreatedAt:      msg.CreatedAt,
	}
}
