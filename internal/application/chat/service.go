// Package chat implements the project advisory chat.
package chat

import (
	"context"
	"errors"
	"maps"
	"strings"

	"github.com/google/uuid"
	"github.com/nordvest/backend/internal/domain/analytics"
	"github.com/nordvest/backend/internal/domain/chat"
	"github.com/nordvest/backend/internal/domain/project"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/nordvest/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// FallbackReply is stored and returned when a single-shot answer cannot be generated
const FallbackReply = "Beklager, jeg kunne ikke generere et svar akkurat nå. " +
	"Prøv igjen om litt, eller kontakt oss direkte for rådgivning om prosjektet ditt."

// Responder produces assistant replies
type Responder interface {
	Generate(ctx context.Context, prompt string, projectCtx any) (string, error)
	Stream(ctx context.Context, prompt string, projectCtx any, onChunk func(chunk string) error) (string, error)
}

// Projects resolves the project a conversation is about
type Projects interface {
	Get(ctx context.Context, id uuid.UUID) (*project.Project, error)
}

// SendRequest is a user message posted to the chat
type SendRequest struct {
	Message        string         `json:"message" binding:"max=8000"`
	ProjectID      string         `json:"projectId" binding:"omitempty,uuid"`
	ConversationID string         `json:"conversationId" binding:"omitempty,uuid"`
	Context        map[string]any `json:"context"`
	Stream         *bool          `json:"stream"`
}

// Streaming reports whether the reply should be streamed; streaming is the default
func (r SendRequest) Streaming() bool {
	return r.Stream == nil || *r.Stream
}

// Reply is the stored outcome of one exchange
type Reply struct {
	ConversationID uuid.UUID     `json:"conversation_id"`
	Message        *chat.Message `json:"message"`
	Fallback       bool          `json:"fallback,omitempty"`
}

// Service handles chat exchanges
type Service struct {
	conversations chat.ConversationRepository
	messages      chat.MessageRepository
	projects      Projects
	responder     Responder
	recorder      analytics.Recorder
	logger        *zap.Logger
}

// NewService creates a new chat service
func NewService(
	conversations chat.ConversationRepository,
	messages chat.MessageRepository,
	projects Projects,
	responder Responder,
	recorder analytics.Recorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		conversations: conversations,
		messages:      messages,
		projects:      projects,
		responder:     responder,
		recorder:      recorder,
		logger:        logger,
	}
}

// exchange is a stored user message awaiting its reply
type exchange struct {
	conversation *chat.Conversation
	prompt       string
	context      map[string]any
	projectID    *uuid.UUID
}

// Send answers a message in one piece. A failed generation is replaced by
// FallbackReply so the user always gets an answer.
func (s *Service) Send(ctx context.Context, req SendRequest) (*Reply, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "chat", "send")
	defer span.End()

	ex, err := s.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	content, err := s.responder.Generate(ctx, ex.prompt, ex.context)
	fallback := false
	if err != nil {
		s.logger.Warn("Chat generation failed, replying with fallback",
			zap.String("conversation_id", ex.conversation.ID.String()),
			zap.Error(err),
		)
		telemetry.RecordError(span, err)
		content = FallbackReply
		fallback = true
	}

	var metadata map[string]any
	if fallback {
		metadata = map[string]any{"fallback": true}
	}
	msg, err := s.finish(ctx, ex, content, metadata)
	if err != nil {
		return nil, err
	}
	return &Reply{ConversationID: ex.conversation.ID, Message: msg, Fallback: fallback}, nil
}

// Stream answers a message incrementally, handing each fragment to onChunk.
// The assistant message is stored once, after the stream ends. If the stream
// breaks off after producing text, the partial reply is stored, flagged as
// interrupted, and returned together with the error.
func (s *Service) Stream(ctx context.Context, req SendRequest, onChunk func(chunk string) error) (*Reply, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "chat", "stream")
	defer span.End()

	ex, err := s.begin(ctx, req)
	if err != nil {
		return nil, err
	}

	content, streamErr := s.responder.Stream(ctx, ex.prompt, ex.context, onChunk)
	if streamErr != nil {
		telemetry.RecordError(span, streamErr)
		if strings.TrimSpace(content) == "" {
			s.logger.Error("Chat stream failed",
				zap.String("conversation_id", ex.conversation.ID.String()),
				zap.Error(streamErr),
			)
			return nil, streamErr
		}
		s.logger.Warn("Chat stream interrupted, storing partial reply",
			zap.String("conversation_id", ex.conversation.ID.String()),
			zap.Int("length", len(content)),
			zap.Error(streamErr),
		)
	}

	var metadata map[string]any
	if streamErr != nil {
		metadata = map[string]any{"interrupted": true}
	}
	// The client may already be gone; the reply is stored regardless.
	msg, err := s.finish(context.WithoutCancel(ctx), ex, content, metadata)
	if err != nil {
		return nil, err
	}
	return &Reply{ConversationID: ex.conversation.ID, Message: msg}, streamErr
}

// begin validates the request, resolves the conversation and stores the user message
func (s *Service) begin(ctx context.Context, req SendRequest) (*exchange, error) {
	prompt := strings.TrimSpace(req.Message)
	if prompt == "" {
		return nil, shared.NewValidationError("Melding er påkrevd")
	}

	ex := &exchange{prompt: prompt, context: make(map[string]any, len(req.Context)+1)}
	maps.Copy(ex.context, req.Context)

	if req.ProjectID != "" {
		id, err := uuid.Parse(req.ProjectID)
		if err != nil {
			return nil, shared.NewValidationError("invalid projectId")
		}
		found, err := s.attachProject(ctx, ex, id)
		if err != nil {
			return nil, err
		}
		if found {
			ex.projectID = &id
		}
	}

	conv, err := s.conversation(ctx, req.ConversationID, ex.projectID, prompt)
	if err != nil {
		return nil, err
	}
	ex.conversation = conv
	if ex.projectID == nil && conv.ProjectID != nil {
		ex.projectID = conv.ProjectID
		if _, err := s.attachProject(ctx, ex, *conv.ProjectID); err != nil {
			return nil, err
		}
	}

	userMsg, err := chat.NewMessage(conv.ID, chat.RoleUser, prompt, nil)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		s.logger.Error("Failed to store user message", zap.String("conversation_id", conv.ID.String()), zap.Error(err))
		return nil, err
	}
	return ex, nil
}

// attachProject puts the snapshot of project id into the model context.
// An unknown project is not an error; found reports whether it exists.
func (s *Service) attachProject(ctx context.Context, ex *exchange, id uuid.UUID) (found bool, err error) {
	p, err := s.projects.Get(ctx, id)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		s.logger.Debug("Chat references unknown project", zap.String("project_id", id.String()))
		return false, nil
	case err != nil:
		return false, err
	}
	ex.context["project"] = p.Snapshot()
	return true, nil
}

// conversation continues an existing conversation or starts a new one
func (s *Service) conversation(ctx context.Context, rawID string, projectID *uuid.UUID, opening string) (*chat.Conversation, error) {
	if rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, shared.NewValidationError("invalid conversationId")
		}
		return s.conversations.FindByID(ctx, id)
	}

	conv := chat.NewConversation(projectID, opening)
	if err := s.conversations.Create(ctx, conv); err != nil {
		s.logger.Error("Failed to create conversation", zap.Error(err))
		return nil, err
	}
	return conv, nil
}

// finish stores the assistant message and bumps the conversation
func (s *Service) finish(ctx context.Context, ex *exchange, content string, metadata map[string]any) (*chat.Message, error) {
	msg, err := chat.NewMessage(ex.conversation.ID, chat.RoleAssistant, content, metadata)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.logger.Error("Failed to store assistant message",
			zap.String("conversation_id", ex.conversation.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	if err := s.conversations.Touch(ctx, ex.conversation.ID); err != nil {
		s.logger.Warn("Failed to touch conversation", zap.String("conversation_id", ex.conversation.ID.String()), zap.Error(err))
	}

	if ex.projectID != nil {
		s.recorder.Record(ctx, *ex.projectID, analytics.EventChatMessage, map[string]any{
			"conversation_id": ex.conversation.ID.String(),
			"message_length":  len(ex.prompt),
			"reply_length":    len(content),
		})
	}
	return msg, nil
}

// ListConversations returns the conversations of a project, most recent first
func (s *Service) ListConversations(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]chat.Conversation, error) {
	convs, err := s.conversations.FindByProject(ctx, projectID, filter.Normalized())
	if err != nil {
		return nil, err
	}
	if convs == nil {
		convs = []chat.Conversation{}
	}
	return convs, nil
}

// ListMessages returns the messages of a conversation in order
func (s *Service) ListMessages(ctx context.Context, conversationID uuid.UUID, filter shared.Filter) ([]chat.Message, error) {
	if _, err := s.conversations.FindByID(ctx, conversationID); err != nil {
		return nil, err
	}
	msgs, err := s.messages.FindByConversation(ctx, conversationID, filter.Normalized())
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	return msgs, nil
}
