package handler

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goevery/messenger/internal/auth"
	"github.com/goevery/messenger/internal/ierr"
	"github.com/goevery/messenger/internal/messenger"
	"github.com/goevery/messenger/internal/persistence"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

type RegisterHandlerInterface interface {
	Handle(ctx context.Context, req RegisterRequest) (TokenResponse, error)
}

type RegisterHandler struct {
	validate      *validator.Validate
	users         persistence.UserStore
	authenticator *auth.Authenticator
}

func NewRegisterHandler(
	validate *validator.Validate,
	users persistence.UserStore,
	authenticator *auth.Authenticator,
) *RegisterHandler {
	return &RegisterHandler{
		validate,
		users,
		authenticator,
	}
}

func (h *RegisterHandler) Handle(ctx context.Context, req RegisterRequest) (TokenResponse, error) {
	err := h.validate.Struct(req)
	if err != nil {
		return TokenResponse{}, validationError(err)
	}

	exists, err := h.users.UserExists(ctx, req.Username, req.Email)
	if err != nil {
		return TokenResponse{}, storeError(err)
	}
	if exists {
		return TokenResponse{},
			ierr.New(ierr.ErrorCodeAlreadyExists, errors.New("username or email already registered"))
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return TokenResponse{}, err
	}

	now := time.Now().UTC()
	user := messenger.User{
		Id:                   uuid.NewString(),
		Username:             req.Username,
		Email:                req.Email,
		DisplayName:          req.DisplayName,
		PasswordHash:         passwordHash,
		IsOnline:             false,
		LastSeen:             &now,
		CreatedAt:            now,
		Theme:                "light",
		NotificationsEnabled: true,
	}

	err = h.users.CreateUser(ctx, user)
	if err != nil {
		return TokenResponse{}, storeError(err)
	}

	accessToken, err := h.authenticator.IssueToken(user.Username)
	if err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        user.Profile(),
	}, nil
}
