package handler

import (
	"context"
	"errors"

	"github.com/goevery/messenger/internal/auth"
	"github.com/goevery/messenger/internal/ierr"
	"github.com/goevery/messenger/internal/messenger"
)

// TokenResponse is the payload returned by register and login.
type TokenResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	User        messenger.Profile `json:"user"`
}

func currentUser(ctx context.Context) (messenger.User, error) {
	user, ok := auth.CurrentUserFromContext(ctx)
	if !ok {
		return messenger.User{}, ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("user not authenticated"))
	}

	return user, nil
}

// storeError wraps an unexpected persistence failure. NotFound sentinels are
// mapped by the callers that expect them.
func storeError(err error) error {
	return ierr.New(ierr.ErrorCodeUnavailable, err)
}

func validationError(err error) error {
	return ierr.New(ierr.ErrorCodeInvalidArgument, err)
}
