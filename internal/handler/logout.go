package handler

import (
	"context"
	"time"

	"github.com/goevery/messenger/internal/persistence"
)

type LogoutResponse struct {
	Message string `json:"message"`
}

type LogoutHandlerInterface interface {
	Handle(ctx context.Context) (LogoutResponse, error)
}

type LogoutHandler struct {
	users persistence.UserStore
}

func NewLogoutHandler(users persistence.UserStore) *LogoutHandler {
	return &LogoutHandler{
		users,
	}
}

func (h *LogoutHandler) Handle(ctx context.Context) (LogoutResponse, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return LogoutResponse{}, err
	}

	err = h.users.SetPresence(ctx, user.Id, false, time.Now().UTC())
	if err != nil {
		return LogoutResponse{}, storeError(err)
	}

	return LogoutResponse{
		Message: "Successfully logged out",
	}, nil
}
