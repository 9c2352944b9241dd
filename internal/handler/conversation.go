package handler

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goevery/messenger/internal/messenger"
	"github.com/goevery/messenger/internal/persistence"
	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	ParticipantIds []string `json:"participant_ids" validate:"required,min=1,dive,required"`
	IsGroup        bool     `json:"is_group"`
	GroupName      *string  `json:"group_name" validate:"omitempty,max=100"`
}

type CreateConversationHandlerInterface interface {
	Handle(ctx context.Context, req CreateConversationRequest) (messenger.Conversation, error)
}

type CreateConversationHandler struct {
	validate      *validator.Validate
	users         persistence.UserStore
	conversations persistence.ConversationStore
}

func NewCreateConversationHandler(
	validate *validator.Validate,
	users persistence.UserStore,
	conversations persistence.ConversationStore,
) *CreateConversationHandler {
	return &CreateConversationHandler{
		validate,
		users,
		conversations,
	}
}

func (h *CreateConversationHandler) Handle(ctx context.Context, req CreateConversationRequest) (messenger.Conversation, error) {
	err := h.validate.Struct(req)
	if err != nil {
		return messenger.Conversation{}, validationError(err)
	}

	user, err := currentUser(ctx)
	if err != nil {
		return messenger.Conversation{}, err
	}

	participantIds := req.ParticipantIds
	if !slices.Contains(participantIds, user.Id) {
		participantIds = append(slices.Clone(participantIds), user.Id)
	}

	// Direct conversations are deduplicated on the participant pair.
	if !req.IsGroup && len(participantIds) == 2 {
		existing, err := h.conversations.FindDirectConversation(ctx, participantIds)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, persistence.ErrNotFound) {
			return messenger.Conversation{}, storeError(err)
		}
	}

	participants, err := h.users.FindUsersByIds(ctx, participantIds)
	if err != nil {
		return messenger.Conversation{}, storeError(err)
	}

	now := time.Now().UTC()
	conversation := messenger.Conversation{
		Id:           uuid.NewString(),
		Participants: participants,
		IsGroup:      req.IsGroup,
		GroupName:    req.GroupName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = h.conversations.CreateConversation(ctx, conversation)
	if err != nil {
		return messenger.Conversation{}, storeError(err)
	}

	return conversation, nil
}

type ListConversationsHandlerInterface interface {
	Handle(ctx context.Context) ([]messenger.Conversation, error)
}

type ListConversationsHandler struct {
	conversations persistence.ConversationStore
	messages      persistence.MessageStore
}

func NewListConversationsHandler(
	conversations persistence.ConversationStore,
	messages persistence.MessageStore,
) *ListConversationsHandler {
	return &ListConversationsHandler{
		conversations,
		messages,
	}
}

// Handle returns the caller's conversations, most recently active first,
// each annotated with its last message.
func (h *ListConversationsHandler) Handle(ctx context.Context) ([]messenger.Conversation, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	conversations, err := h.conversations.ListConversations(ctx, user.Id)
	if err != nil {
		return nil, storeError(err)
	}

	for i := range conversations {
		last, err := h.messages.LastMessage(ctx, conversations[i].Id)
		if errors.Is(err, persistence.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, storeError(err)
		}

		conversations[i].LastMessage = &last
	}

	return conversations, nil
}
