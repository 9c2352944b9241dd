package handler

import (
	"context"

	"github.com/goevery/messenger/internal/messenger"
	"github.com/goevery/messenger/internal/persistence"
)

type ListUsersHandlerInterface interface {
	Handle(ctx context.Context) ([]messenger.Profile, error)
}

type ListUsersHandler struct {
	users persistence.UserStore
}

func NewListUsersHandler(users persistence.UserStore) *ListUsersHandler {
	return &ListUsersHandler{
		users,
	}
}

// Handle lists every registered user except the caller.
func (h *ListUsersHandler) Handle(ctx context.Context) ([]messenger.Profile, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := h.users.ListUsers(ctx, user.Id)
	if err != nil {
		return nil, storeError(err)
	}

	return profiles, nil
}

type SearchUsersHandlerInterface interface {
	Handle(ctx context.Context, query string) ([]messenger.Profile, error)
}

type SearchUsersHandler struct {
	users persistence.UserStore
}

func NewSearchUsersHandler(users persistence.UserStore) *SearchUsersHandler {
	return &SearchUsersHandler{
		users,
	}
}

// Handle matches usernames and display names case-insensitively.
func (h *SearchUsersHandler) Handle(ctx context.Context, query string) ([]messenger.Profile, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := h.users.SearchUsers(ctx, user.Id, query)
	if err != nil {
		return nil, storeError(err)
	}

	return profiles, nil
}
