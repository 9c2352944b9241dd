package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/goevery/messenger/internal/messenger"
	"github.com/goevery/messenger/internal/persistence"
)

type UpdateProfileRequest struct {
	DisplayName          string  `json:"display_name" validate:"required,max=100"`
	AvatarUrl            *string `json:"avatar_url" validate:"omitempty,max=500"`
	Theme                string  `json:"theme" validate:"omitempty,oneof=light dark"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
}

type ProfileHandlerInterface interface {
	Get(ctx context.Context) (messenger.Profile, error)
	Update(ctx context.Context, req UpdateProfileRequest) (messenger.Profile, error)
}

type ProfileHandler struct {
	validate *validator.Validate
	users    persistence.UserStore
}

func NewProfileHandler(
	validate *validator.Validate,
	users persistence.UserStore,
) *ProfileHandler {
	return &ProfileHandler{
		validate,
		users,
	}
}

func (h *ProfileHandler) Get(ctx context.Context) (messenger.Profile, error) {
	user, err := currentUser(ctx)
	if err != nil {
		return messenger.Profile{}, err
	}

	return user.Profile(), nil
}

func (h *ProfileHandler) Update(ctx context.Context, req UpdateProfileRequest) (messenger.Profile, error) {
	err := h.validate.Struct(req)
	if err != nil {
		return messenger.Profile{}, validationError(err)
	}

	user, err := currentUser(ctx)
	if err != nil {
		return messenger.Profile{}, err
	}

	theme := req.Theme
	if theme == "" {
		theme = user.Theme
	}

	update := persistence.SettingsUpdate{
		DisplayName:          req.DisplayName,
		AvatarUrl:            req.AvatarUrl,
		Theme:                theme,
		NotificationsEnabled: req.NotificationsEnabled,
	}

	err = h.users.UpdateUserSettings(ctx, user.Id, update)
	if err != nil {
		return messenger.Profile{}, storeError(err)
	}

	updated, err := h.users.FindUserById(ctx, user.Id)
	if err != nil {
		return messenger.Profile{}, storeError(err)
	}

	return updated.Profile(), nil
}
