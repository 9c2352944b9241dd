package messenger

import "time"

type Conversation struct {
	Id           string    `bson:"id" json:"id"`
	Participants []Profile `bson:"participants" json:"participants"`
	IsGroup      bool      `bson:"is_group" json:"is_group"`
	GroupName    *string   `bson:"group_name" json:"group_name"`
	LastMessage  *Message  `bson:"-" json:"last_message,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// ParticipantIds returns the identities entitled to receive events for this
// conversation.
func (c Conversation) ParticipantIds() []string {
	ids := make([]string, len(c.Participants))
	for i, p := range c.Participants {
		ids[i] = p.Id
	}

	return ids
}

func (c Conversation) HasParticipant(userId string) bool {
	for _, p := range c.Participants {
		if p.Id == userId {
			return true
		}
	}

	return false
}
