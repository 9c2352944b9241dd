package handler

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goevery/messenger/internal/auth"
	"github.com/goevery/messenger/internal/ierr"
	"github.com/goevery/messenger/internal/persistence"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginHandlerInterface interface {
	Handle(ctx context.Context, req LoginRequest) (TokenResponse, error)
}

type LoginHandler struct {
	validate      *validator.Validate
	users         persistence.UserStore
	authenticator *auth.Authenticator
}

func NewLoginHandler(
	validate *validator.Validate,
	users persistence.UserStore,
	authenticator *auth.Authenticator,
) *LoginHandler {
	return &LoginHandler{
		validate,
		users,
		authenticator,
	}
}

func (h *LoginHandler) Handle(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	err := h.validate.Struct(req)
	if err != nil {
		return TokenResponse{}, validationError(err)
	}

	user, err := h.users.FindUserByUsername(ctx, req.Username)
	if errors.Is(err, persistence.ErrNotFound) {
		return TokenResponse{},
			ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("incorrect username or password"))
	}
	if err != nil {
		return TokenResponse{}, storeError(err)
	}

	if !auth.ComparePassword(req.Password, user.PasswordHash) {
		return TokenResponse{},
			ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("incorrect username or password"))
	}

	now := time.Now().UTC()

	err = h.users.SetPresence(ctx, user.Id, true, now)
	if err != nil {
		return TokenResponse{}, storeError(err)
	}

	user.IsOnline = true
	user.LastSeen = &now

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
