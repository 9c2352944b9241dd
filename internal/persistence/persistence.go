package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/goevery/messenger/internal/messenger"
)

// ErrNotFound is returned when a lookup matches no document. Engines map
// their driver's sentinel onto it.
var ErrNotFound = errors.New("not found")

type SettingsUpdate struct {
	DisplayName          string
	AvatarUrl            *string
	Theme                string
	NotificationsEnabled bool
}

type UserStore interface {
	CreateUser(ctx context.Context, user messenger.User) error
	UserExists(ctx context.Context, username string, email string) (bool, error)
	FindUserByUsername(ctx context.Context, username string) (messenger.User, error)
	FindUserById(ctx context.Context, id string) (messenger.User, error)
	FindUsersByIds(ctx context.Context, ids []string) ([]messenger.Profile, error)
	ListUsers(ctx context.Context, excludeId string) ([]messenger.Profile, error)
	SearchUsers(ctx context.Context, excludeId string, query string) ([]messenger.Profile, error)
	UpdateUserSettings(ctx context.Context, id string, update SettingsUpdate) error
	SetPresence(ctx context.Context, id string, online bool, lastSeen time.Time) error
}

type ConversationStore interface {
	CreateConversation(ctx context.Context, conversation messenger.Conversation) error
	FindConversation(ctx context.Context, id string) (messenger.Conversation, error)
	FindDirectConversation(ctx context.Context, participantIds []string) (messenger.Conversation, error)
	ListConversations(ctx context.Context, userId string) ([]messenger.Conversation, error)
	SetParticipants(ctx context.Context, id string, participants []messenger.Profile) error
	TouchConversation(ctx context.Context, id string, at time.Time) error
}

type MessageStore interface {
	SaveMessage(ctx context.Context, message messenger.Message) error
	ListMessages(ctx context.Context, conversationId string, limit int64) ([]messenger.Message, error)
	LastMessage(ctx context.Context, conversationId string) (messenger.Message, error)
}
