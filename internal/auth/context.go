package auth

import (
	"context"

	"github.com/goevery/messenger/internal/messenger"
)

type contextKey string

const currentUserKey contextKey = "current_user"

func WithCurrentUser(ctx context.Context, user messenger.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

func CurrentUserFromContext(ctx context.Context) (messenger.User, bool) {
	user, ok := ctx.Value(currentUserKey).(messenger.User)

	return user, ok
}
