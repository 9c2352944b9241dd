package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/goevery/messenger/internal/messenger"
	"github.com/goevery/messenger/internal/persistence"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (e *Engine) CreateUser(ctx context.Context, user messenger.User) error {
	_, err := e.users.InsertOne(ctx, user)

	return err
}

func (e *Engine) UserExists(ctx context.Context, username string, email string) (bool, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"username": username},
			bson.M{"email": email},
		},
	}

	err := e.users.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (e *Engine) FindUserByUsername(ctx context.Context, username string) (messenger.User, error) {
	return e.findUser(ctx, bson.M{"username": username})
}

func (e *Engine) FindUserById(ctx context.Context, id string) (messenger.User, error) {
	return e.findUser(ctx, bson.M{"id": id})
}

func (e *Engine) findUser(ctx context.Context, filter bson.M) (messenger.User, error) {
	var user messenger.User

	err := e.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return messenger.User{}, persistence.ErrNotFound
	}
	if err != nil {
		return messenger.User{}, err
	}

	return user, nil
}

func (e *Engine) FindUsersByIds(ctx context.Context, ids []string) ([]messenger.Profile, error) {
	return e.findProfiles(ctx, bson.M{"id": bson.M{"$in": ids}}, 100)
}

func (e *Engine) ListUsers(ctx context.Context, excludeId string) ([]messenger.Profile, error) {
	return e.findProfiles(ctx, bson.M{"id": bson.M{"$ne": excludeId}}, 100)
}

func (e *Engine) SearchUsers(ctx context.Context, excludeId string, query string) ([]messenger.Profile, error) {
	return e.findProfiles(ctx, searchFilter(excludeId, query), 50)
}

// searchFilter matches the query as literal text; metacharacters in user
// input must not change the $regex semantics.
func searchFilter(excludeId string, query string) bson.M {
	pattern := bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}

	return bson.M{
		"$and": bson.A{
			bson.M{"id": bson.M{"$ne": excludeId}},
			bson.M{"$or": bson.A{
				bson.M{"username": pattern},
				bson.M{"display_name": pattern},
			}},
		},
	}
}

func (e *Engine) findProfiles(ctx context.Context, filter bson.M, limit int64) ([]messenger.Profile, error) {
	opts := options.Find().SetLimit(limit)

	cursor, err := e.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var profiles []messenger.Profile
	err = cursor.All(ctx, &profiles)
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (e *Engine) UpdateUserSettings(ctx context.Context, id string, update persistence.SettingsUpdate) error {
	fields := bson.M{
		"display_name":          update.DisplayName,
		"theme":                 update.Theme,
		"notifications_enabled": update.NotificationsEnabled,
	}
	if update.AvatarUrl != nil {
		fields["avatar_url"] = update.AvatarUrl
	}

	_, err := e.users.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})

	return err
}

func (e *Engine) SetPresence(ctx context.Context, id string, online bool, lastSeen time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"is_online": online,
			"last_seen": lastSeen,
		},
	}

	_, err := e.users.UpdateOne(ctx, bson.M{"id": id}, update)

	return err
}
