package messenger

import "time"

const MessageTypeText = "text"

type Message struct {
	Id             string    `bson:"id" json:"id"`
	SenderId       string    `bson:"sender_id" json:"sender_id"`
	SenderName     string    `bson:"sender_name" json:"sender_name"`
	SenderAvatar   *string   `bson:"sender_avatar" json:"sender_avatar"`
	Content        string    `bson:"content" json:"content"`
	ConversationId string    `bson:"conversation_id" json:"conversation_id"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
	MessageType    string    `bson:"message_type" json:"message_type"`
}
