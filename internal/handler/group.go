package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/goevery/messenger/internal/ierr"
	"github.com/goevery/messenger/internal/messenger"
	"github.com/goevery/messenger/internal/persistence"
)

type CreateGroupRequest struct {
	Name           string   `json:"name" validate:"required,max=100"`
	Description    *string  `json:"description" validate:"omitempty,max=500"`
	ParticipantIds []string `json:"participant_ids" validate:"required,min=1,dive,required"`
}

type CreateGroupHandlerInterface interface {
	Handle(ctx context.Context, req CreateGroupRequest) (messenger.Conversation, error)
}

type CreateGroupHandler struct {
	validate      *validator.Validate
	conversations *CreateConversationHandler
}

func NewCreateGroupHandler(
	validate *validator.Validate,
	conversations *CreateConversationHandler,
) *CreateGroupHandler {
	return &CreateGroupHandler{
		validate,
		conversations,
	}
}

func (h *CreateGroupHandler) Handle(ctx context.Context, req CreateGroupRequest) (messenger.Conversation, error) {
	err := h.validate.Struct(req)
	if err != nil {
		return messenger.Conversation{}, validationError(err)
	}

	name := req.Name

	return h.conversations.Handle(ctx, CreateConversationRequest{
		ParticipantIds: req.ParticipantIds,
		IsGroup:        true,
		GroupName:      &name,
	})
}

type AddParticipantsRequest struct {
	GroupId        string   `json:"-" validate:"required"`
	ParticipantIds []string `json:"participant_ids" validate:"required,min=1,dive,required"`
}

type AddParticipantsResponse struct {
	Message string `json:"message"`
}

type AddParticipantsHandlerInterface interface {
	Handle(ctx context.Context, req AddParticipantsRequest) (AddParticipantsResponse, error)
}

type AddParticipantsHandler struct {
	validate      *validator.Validate
	users         persistence.UserStore
	conversations persistence.ConversationStore
}

func NewAddParticipantsHandler(
	validate *validator.Validate,
	users persistence.UserStore,
	conversations persistence.ConversationStore,
) *AddParticipantsHandler {
	return &AddParticipantsHandler{
		validate,
		users,
		conversations,
	}
}

func (h *AddParticipantsHandler) Handle(ctx context.Context, req AddParticipantsRequest) (AddParticipantsResponse, error) {
	err := h.validate.Struct(req)
	if err != nil {
		return AddParticipantsResponse{}, validationError(err)
	}

	user, err := currentUser(ctx)
	if err != nil {
		return AddParticipantsResponse{}, err
	}

	conversation, err := h.conversations.FindConversation(ctx, req.GroupId)
	if errors.Is(err, persistence.ErrNotFound) {
		return AddParticipantsResponse{}, ierr.New(ierr.ErrorCodeNotFound, errors.New("group not found"))
	}
	if err != nil {
		return AddParticipantsResponse{}, storeError(err)
	}

	if !conversation.IsGroup {
		return AddParticipantsResponse{}, ierr.New(ierr.ErrorCodeNotFound, errors.New("group not found"))
	}

	if !conversation.HasParticipant(user.Id) {
		return AddParticipantsResponse{},
			ierr.New(ierr.ErrorCodePermissionDenied, errors.New("not a member of this group"))
	}

	newParticipants, err := h.users.FindUsersByIds(ctx, req.ParticipantIds)
	if err != nil {
		return AddParticipantsResponse{}, storeError(err)
	}

	participants := conversation.Participants
	for _, candidate := range newParticipants {
		if !conversation.HasParticipant(candidate.Id) {
			participants = append(participants, candidate)
		}
	}

	err = h.conversations.SetParticipants(ctx, conversation.Id, participants)
	if err != nil {
		return AddParticipantsResponse{}, storeError(err)
	}

	return AddParticipantsResponse{
		Message: "Participants added successfully",
	}, nil
}
