package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	chatapp "github.com/nordvest/backend/internal/application/chat"
	"github.com/nordvest/backend/internal/domain/shared"
	"github.com/nordvest/backend/internal/infrastructure/logger"
	"github.com/nordvest/backend/internal/interfaces/http/dto"
	"github.com/nordvest/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// SSE event names emitted by a streamed chat reply
const (
	EventChunk = "message"
	EventDone  = "done"
	EventError = "error"
)

// ChatHandler handles the advisory chat endpoints
type ChatHandler struct {
	BaseHandler
	chatService *chatapp.Service
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *chatapp.Service) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatListQuery selects conversations of a project or messages of a conversation
type ChatListQuery struct {
	ProjectID      string `form:"projectId" binding:"omitempty,uuid"`
	ConversationID string `form:"conversationId" binding:"omitempty,uuid"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset         int    `form:"offset" binding:"omitempty,min=0"`
}

// chunkEvent is the payload of one streamed fragment
type chunkEvent struct {
	Content string `json:"content"`
}

// Send handles POST /api/chat. By default the reply is streamed as
// server-sent events: one "message" event per fragment followed by "done"
// with the stored reply. With "stream": false the stored reply is returned as JSON.
func (h *ChatHandler) Send(c *gin.Context) {
	var req chatapp.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if !req.Streaming() {
		reply, err := h.chatService.Send(c.Request.Context(), req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, reply)
		return
	}

	h.stream(c, req)
}

func (h *ChatHandler) stream(c *gin.Context, req chatapp.SendRequest) {
	ctx := c.Request.Context()
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
	}

	reply, err := h.chatService.Stream(ctx, req, func(chunk string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start()
		c.SSEvent(EventChunk, chunkEvent{Content: chunk})
		c.Writer.Flush()
		return nil
	})

	if err != nil && !started {
		// Nothing was sent yet, so a regular JSON error is still possible
		h.HandleError(c, err)
		return
	}
	start()

	if err != nil {
		logger.GetGinLogger(c).Warn("Chat stream ended with error", zap.Error(err))
		c.SSEvent(EventError, dto.ErrorInfo{
			Code:      dto.ErrCodeAIGeneration,
			Message:   shared.ErrAIGeneration.Message,
			RequestID: middleware.GetRequestID(c),
		})
	}
	if reply != nil {
		c.SSEvent(EventDone, reply)
	}
	c.Writer.Flush()
}

// List handles GET /api/chat?projectId= (conversations of a project) and
// GET /api/chat?conversationId= (messages of a conversation)
func (h *ChatHandler) List(c *gin.Context) {
	var query ChatListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	filter := shared.Filter{Limit: query.Limit, Offset: query.Offset}.Normalized()

	switch {
	case query.ConversationID != "":
		messages, err := h.chatService.ListMessages(c.Request.Context(), uuid.MustParse(query.ConversationID), filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, messages, len(messages), filter.Limit, filter.Offset)
	case query.ProjectID != "":
		conversations, err := h.chatService.ListConversations(c.Request.Context(), uuid.MustParse(query.ProjectID), filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, conversations, len(conversations), filter.Limit, filter.Offset)
	default:
		h.BadRequest(c, "projectId or conversationId parameter required")
	}
}
