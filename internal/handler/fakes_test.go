package handler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goevery/messenger/internal/messenger"
	"github.com/goevery/messenger/internal/persistence"
	"github.com/goevery/messenger/internal/realtime"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]messenger.User

	createErr error
	findErr   error
}

func newFakeUserStore(users ...messenger.User) *fakeUserStore {
	store := &fakeUserStore{
		users: make(map[string]messenger.User),
	}
	for _, user := range users {
		store.users[user.Id] = user
	}

	return store
}

func (s *fakeUserStore) CreateUser(ctx context.Context, user messenger.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return s.createErr
	}

	s.users[user.Id] = user

	return nil
}

func (s *fakeUserStore) UserExists(ctx context.Context, username string, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (s *fakeUserStore) FindUserByUsername(ctx context.Context, username string) (messenger.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findErr != nil {
		return messenger.User{}, s.findErr
	}

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}

	return messenger.User{}, persistence.ErrNotFound
}

func (s *fakeUserStore) FindUserById(ctx context.Context, id string) (messenger.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return messenger.User{}, persistence.ErrNotFound
	}

	return user, nil
}

func (s *fakeUserStore) FindUsersByIds(ctx context.Context, ids []string) ([]messenger.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var profiles []messenger.Profile
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			profiles = append(profiles, user.Profile())
		}
	}

	return profiles, nil
}

func (s *fakeUserStore) ListUsers(ctx context.Context, excludeId string) ([]messenger.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var profiles []messenger.Profile
	for _, user := range s.users {
		if user.Id != excludeId {
			profiles = append(profiles, user.Profile())
		}
	}

	return profiles, nil
}

func (s *fakeUserStore) SearchUsers(ctx context.Context, excludeId string, query string) ([]messenger.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(query)

	var profiles []messenger.Profile
	for _, user := range s.users {
		if user.Id == excludeId {
			continue
		}
		if strings.Contains(strings.ToLower(user.Username), query) ||
			strings.Contains(strings.ToLower(user.DisplayName), query) {
			profiles = append(profiles, user.Profile())
		}
	}

	return profiles, nil
}

func (s *fakeUserStore) UpdateUserSettings(ctx context.Context, id string, update persistence.SettingsUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return persistence.ErrNotFound
	}

	user.DisplayName = update.DisplayName
	user.Theme = update.Theme
	user.NotificationsEnabled = update.NotificationsEnabled
	if update.AvatarUrl != nil {
		user.AvatarUrl = update.AvatarUrl
	}

	s.users[id] = user

	return nil
}

func (s *fakeUserStore) SetPresence(ctx context.Context, id string, online bool, lastSeen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return persistence.ErrNotFound
	}

	user.IsOnline = online
	user.LastSeen = &lastSeen
	s.users[id] = user

	return nil
}

type fakeConversationStore struct {
	mu            sync.Mutex
	conversations map[string]messenger.Conversation

	findErr  error
	touchErr error
}

func newFakeConversationStore(conversations ...messenger.Conversation) *fakeConversationStore {
	store := &fakeConversationStore{
		conversations: make(map[string]messenger.Conversation),
	}
	for _, conversation := range conversations {
		store.conversations[conversation.Id] = conversation
	}

	return store
}

func (s *fakeConversationStore) CreateConversation(ctx context.Context, conversation messenger.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[conversation.Id] = conversation

	return nil
}

func (s *fakeConversationStore) FindConversation(ctx context.Context, id string) (messenger.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findErr != nil {
		return messenger.Conversation{}, s.findErr
	}

	conversation, ok := s.conversations[id]
	if !ok {
		return messenger.Conversation{}, persistence.ErrNotFound
	}

	return conversation, nil
}

func (s *fakeConversationStore) FindDirectConversation(ctx context.Context, participantIds []string) (messenger.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conversation := range s.conversations {
		if conversation.IsGroup || len(conversation.Participants) != len(participantIds) {
			continue
		}

		all := true
		for _, id := range participantIds {
			if !conversation.HasParticipant(id) {
				all = false
				break
			}
		}
		if all {
			return conversation, nil
		}
	}

	return messenger.Conversation{}, persistence.ErrNotFound
}

func (s *fakeConversationStore) ListConversations(ctx context.Context, userId string) ([]messenger.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var conversations []messenger.Conversation
	for _, conversation := range s.conversations {
		if conversation.HasParticipant(userId) {
			conversations = append(conversations, conversation)
		}
	}

	return conversations, nil
}

func (s *fakeConversationStore) SetParticipants(ctx context.Context, id string, participants []messenger.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, ok := s.conversations[id]
	if !ok {
		return persistence.ErrNotFound
	}

	conversation.Participants = participants
	s.conversations[id] = conversation

	return nil
}

func (s *fakeConversationStore) TouchConversation(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.touchErr != nil {
		return s.touchErr
	}

	conversation, ok := s.conversations[id]
	if !ok {
		return persistence.ErrNotFound
	}

	conversation.UpdatedAt = at
	s.conversations[id] = conversation

	return nil
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []messenger.Message

	saveErr error
}

func (s *fakeMessageStore) SaveMessage(ctx context.Context, message messenger.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}

	s.messages = append(s.messages, message)

	return nil
}

func (s *fakeMessageStore) ListMessages(ctx context.Context, conversationId string, limit int64) ([]messenger.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var messages []messenger.Message
	for _, message := range s.messages {
		if message.ConversationId == conversationId {
			messages = append(messages, message)
		}
	}

	return messages, nil
}

func (s *fakeMessageStore) LastMessage(ctx context.Context, conversationId string) (messenger.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ConversationId == conversationId {
			return s.messages[i], nil
		}
	}

	return messenger.Message{}, persistence.ErrNotFound
}

func (s *fakeMessageStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.messages)
}

type dispatchCall struct {
	event      realtime.Event
	recipients []string
}

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []dispatchCall
}

func (d *fakeDispatcher) Dispatch(event realtime.Event, recipients []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, dispatchCall{event, recipients})
}

func (d *fakeDispatcher) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.calls)
}
