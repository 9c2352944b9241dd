package handler

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goevery/messenger/internal/ierr"
	"github.com/goevery/messenger/internal/messenger"
	"github.com/goevery/messenger/internal/persistence"
	"github.com/goevery/messenger/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher is the boundary into the real-time core. Dispatch never fails
// from the caller's point of view.
type Dispatcher interface {
	Dispatch(event realtime.Event, recipients []string)
}

type SendMessageRequest struct {
	Content        string `json:"content" validate:"required,max=1000"`
	ConversationId string `json:"conversation_id" validate:"required"`
}

type SendMessageHandlerInterface interface {
	Handle(ctx context.Context, req SendMessageRequest) (messenger.Message, error)
}

type SendMessageHandler struct {
	logger        *zap.Logger
	validate      *validator.Validate
	conversations persistence.ConversationStore
	messages      persistence.MessageStore
	dispatcher    Dispatcher
}

func NewSendMessageHandler(
	logger *zap.Logger,
	validate *validator.Validate,
	conversations persistence.ConversationStore,
	messages persistence.MessageStore,
	dispatcher Dispatcher,
) *SendMessageHandler {
	return &SendMessageHandler{
		logger,
		validate,
		conversations,
		messages,
		dispatcher,
	}
}

// Handle authorizes the sender against the conversation's participants,
// persists the message, then fans it out to every participant, sender
// included so the sender's other tabs receive the echo. Persistence failure
// aborts before any dispatch.
func (h *SendMessageHandler) Handle(ctx context.Context, req SendMessageRequest) (messenger.Message, error) {
	err := h.validate.Struct(req)
	if err != nil {
		return messenger.Message{}, validationError(err)
	}

	sender, err := currentUser(ctx)
	if err != nil {
		return messenger.Message{}, err
	}

	conversation, err := h.conversations.FindConversation(ctx, req.ConversationId)
	if errors.Is(err, persistence.ErrNotFound) {
		return messenger.Message{}, ierr.New(ierr.ErrorCodeNotFound, errors.New("conversation not found"))
	}
	if err != nil {
		return messenger.Message{}, storeError(err)
	}

	if !conversation.HasParticipant(sender.Id) {
		return messenger.Message{},
			ierr.New(ierr.ErrorCodePermissionDenied, errors.New("not a participant in this conversation"))
	}

	message := messenger.Message{
		Id:             uuid.NewString(),
		SenderId:       sender.Id,
		SenderName:     sender.DisplayName,
		SenderAvatar:   sender.AvatarUrl,
		Content:        req.Content,
		ConversationId: conversation.Id,
		Timestamp:      time.Now().UTC(),
		MessageType:    messenger.MessageTypeText,
	}

	err = h.messages.SaveMessage(ctx, message)
	if err != nil {
		return messenger.Message{}, storeError(err)
	}

	err = h.conversations.TouchConversation(ctx, conversation.Id, message.Timestamp)
	if err != nil {
		// The message is already durable; a stale updated_at only affects
		// conversation ordering.
		h.logger.Warn("failed to touch conversation",
			zap.String("conversationId", conversation.Id),
			zap.Error(err))
	}

	h.dispatcher.Dispatch(realtime.NewMessageEvent(message), conversation.ParticipantIds())

	return message, nil
}

type ListMessagesHandlerInterface interface {
	Handle(ctx context.Context, conversationId string, limit int64) ([]messenger.Message, error)
}

type ListMessagesHandler struct {
	conversations persistence.ConversationStore
	messages      persistence.MessageStore
}

func NewListMessagesHandler(
	conversations persistence.ConversationStore,
	messages persistence.MessageStore,
) *ListMessagesHandler {
	return &ListMessagesHandler{
		conversations,
		messages,
	}
}

func (h *ListMessagesHandler) Handle(ctx context.Context, conversationId string, limit int64) ([]messenger.Message, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	conversation, err := h.conversations.FindConversation(ctx, conversationId)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, ierr.New(ierr.ErrorCodeNotFound, errors.New("conversation not found"))
	}
	if err != nil {
		return nil, storeError(err)
	}

	if !conversation.HasParticipant(user.Id) {
		return nil,
			ierr.New(ierr.ErrorCodePermissionDenied, errors.New("not a participant in this conversation"))
	}

	if limit <= 0 {
		limit = 50
	}

	messages, err := h.messages.ListMessages(ctx, conversationId, limit)
	if err != nil {
		return nil, storeError(err)
	}

	return messages, nil
}
