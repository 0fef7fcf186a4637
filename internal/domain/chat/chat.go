package chat

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/shared"
)

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

const (
	maxTitleRunes   = 60
	maxMessageRunes = 8000
	defaultTitle    = "Ny samtale"
)

// Conversation groups an ordered sequence of messages
type Conversation struct {
	shared.BaseEntity
	ProjectID *uuid.UUID `json:"project_id"`
	Title     string     `json:"title"`
}

// NewConversation creates a conversation titled after its opening message
func NewConversation(projectID *uuid.UUID, opening string) *Conversation {
	return &Conversation{
		BaseEntity: shared.NewBaseEntity(),
		ProjectID:  projectID,
		Title:      titleFrom(opening),
	}
}

func titleFrom(opening string) string {
	title := strings.Join(strings.Fields(opening), " ")
	if title == "" {
		return defaultTitle
	}
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:maxTitleRunes-3])) + "..."
}

// Message is a single utterance in a conversation. Messages are append-only.
type Message struct {
	ID             uuid.UUID      `json:"id"`
	ConversationID uuid.UUID      `json:"conversation_id"`
	Role           Role           `json:"role"`
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewMessage validates and creates a message
func NewMessage(conversationID uuid.UUID, role Role, content string, metadata map[string]any) (*Message, error) {
	if !role.IsValid() {
		return nil, shared.NewValidationError("invalid message role: " + string(role))
	}
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewValidationError("message is required")
	}
	if utf8.RuneCountInString(content) > maxMessageRunes {
		return nil, shared.NewValidationError("message cannot exceed 8000 characters")
	}
	return &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Metadata:       metadata,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
