package mongodb

import (
	"context"
	"errors"

	"github.com/goevery/messenger/internal/messenger"
	"github.com/goevery/messenger/internal/persistence"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (e *Engine) SaveMessage(ctx context.Context, message messenger.Message) error {
	_, err := e.messages.InsertOne(ctx, message)

	return err
}

// ListMessages returns the newest messages of a conversation in
// chronological order.
func (e *Engine) ListMessages(ctx context.Context, conversationId string, limit int64) ([]messenger.Message, error) {
	filter := bson.M{"conversation_id": conversationId}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := e.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var messages []messenger.Message
	err = cursor.All(ctx, &messages)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (e *Engine) LastMessage(ctx context.Context, conversationId string) (messenger.Message, error) {
	filter := bson.M{"conversation_id": conversationId}
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var message messenger.Message

	err := e.messages.FindOne(ctx, filter, opts).Decode(&message)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return messenger.Message{}, persistence.ErrNotFound
	}
	if err != nil {
		return messenger.Message{}, err
	}

	return message, nil
}
