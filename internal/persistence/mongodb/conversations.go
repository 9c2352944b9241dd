package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/goevery/messenger/internal/messenger"
	"github.com/goevery/messenger/internal/persistence"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (e *Engine) CreateConversation(ctx context.Context, conversation messenger.Conversation) error {
	_, err := e.conversations.InsertOne(ctx, conversation)

	return err
}

func (e *Engine) FindConversation(ctx context.Context, id string) (messenger.Conversation, error) {
	return e.findConversation(ctx, bson.M{"id": id})
}

func (e *Engine) FindDirectConversation(ctx context.Context, participantIds []string) (messenger.Conversation, error) {
	filter := bson.M{
		"is_group":        false,
		"participants.id": bson.M{"$all": participantIds},
	}

	return e.findConversation(ctx, filter)
}

func (e *Engine) findConversation(ctx context.Context, filter bson.M) (messenger.Conversation, error) {
	var conversation messenger.Conversation

	err := e.conversations.FindOne(ctx, filter).Decode(&conversation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return messenger.Conversation{}, persistence.ErrNotFound
	}
	if err != nil {
		return messenger.Conversation{}, err
	}

	return conversation, nil
}

func (e *Engine) ListConversations(ctx context.Context, userId string) ([]messenger.Conversation, error) {
	filter := bson.M{"participants.id": userId}
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(100)

	cursor, err := e.conversations.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var conversations []messenger.Conversation
	err = cursor.All(ctx, &conversations)
	if err != nil {
		return nil, err
	}

	return conversations, nil
}

func (e *Engine) SetParticipants(ctx context.Context, id string, participants []messenger.Profile) error {
	update := bson.M{
		"$set": bson.M{
			"participants": participants,
			"updated_at":   time.Now().UTC(),
		},
	}

	_, err := e.conversations.UpdateOne(ctx, bson.M{"id": id}, update)

	return err
}

func (e *Engine) TouchConversation(ctx context.Context, id string, at time.Time) error {
	update := bson.M{"$set": bson.M{"updated_at": at}}

	_, err := e.conversations.UpdateOne(ctx, bson.M{"id": id}, update)

	return err
}
