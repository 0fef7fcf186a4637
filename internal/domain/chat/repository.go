package chat

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/shared"
)

// ConversationRepository persists conversations
type ConversationRepository interface {
	Create(ctx context.Context, c *Conversation) error
	FindByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	// FindByProject lists conversations of a project, most recently updated first
	FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]Conversation, error)
	// Touch refreshes the conversation's update timestamp
	Touch(ctx context.Context, id uuid.UUID) error
}

// MessageRepository persists messages
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	// FindByConversation lists messages oldest first
	FindByConversation(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) ([]Message, error)
}
