package messenger

import "time"

// User is the durable account record. PasswordHash never leaves the server.
type User struct {
	Id                   string     `bson:"id" json:"id"`
	Username             string     `bson:"username" json:"username"`
	Email                string     `bson:"email" json:"email"`
	DisplayName          string     `bson:"display_name" json:"display_name"`
	PasswordHash         string     `bson:"password_hash" json:"-"`
	AvatarUrl            *string    `bson:"avatar_url" json:"avatar_url"`
	IsOnline             bool       `bson:"is_online" json:"is_online"`
	LastSeen             *time.Time `bson:"last_seen" json:"last_seen"`
	CreatedAt            time.Time  `bson:"created_at" json:"created_at"`
	Theme                string     `bson:"theme" json:"theme"`
	NotificationsEnabled bool       `bson:"notifications_enabled" json:"notifications_enabled"`
}

// Profile is the view of a user exposed to other users.
type Profile struct {
	Id          string     `bson:"id" json:"id"`
	Username    string     `bson:"username" json:"username"`
	Email       string     `bson:"email" json:"email"`
	DisplayName string     `bson:"display_name" json:"display_name"`
	AvatarUrl   *string    `bson:"avatar_url" json:"avatar_url"`
	IsOnline    bool       `bson:"is_online" json:"is_online"`
	LastSeen    *time.Time `bson:"last_seen" json:"last_seen"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
}

func (u User) Profile() Profile {
	return Profile{
		Id:          u.Id,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarUrl:   u.AvatarUrl,
		IsOnline:    u.IsOnline,
		LastSeen:    u.LastSeen,
		CreatedAt:   u.CreatedAt,
	}
}
