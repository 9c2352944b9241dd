package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func Connect(uri string) (*mongo.Client, error) {
	return mongo.Connect(options.Client().ApplyURI(uri))
}

type Engine struct {
	users         *mongo.Collection
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewEngine(client *mongo.Client, databaseName string) *Engine {
	database := client.Database(databaseName)

	return &Engine{
		users:         database.Collection("users"),
		conversations: database.Collection("conversations"),
		messages:      database.Collection("messages"),
	}
}

func (e *Engine) Setup(ctx context.Context) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "id", Value: 1}},
		},
	}

	_, err := e.users.Indexes().CreateMany(ctx, userIndexes)
	if err != nil {
		return err
	}

	conversationIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "id", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "participants.id", Value: 1},
				{Key: "updated_at", Value: -1},
			},
		},
	}

	_, err = e.conversations.Indexes().CreateMany(ctx, conversationIndexes)
	if err != nil {
		return err
	}

	messageIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "conversation_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
	}

	_, err = e.messages.Indexes().CreateMany(ctx, messageIndexes)

	return err
}
