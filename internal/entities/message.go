package entities

import "time"

// MaxMessageLength bounds chat message text in characters.
const MaxMessageLength = 2000

// Conversation is a two-party chat, optionally about a parcel.
type Conversation struct {
	ID             string
	ParcelID       *string
	Participant1ID string
	Participant2ID string
	CreatedAt      time.Time

	// Populated in listings for the requesting user.
	OtherUserName   string
	LastMessage     string
	LastMessageTime *time.Time
}

// HasParticipant reports whether userID belongs to the conversation.
func (c Conversation) HasParticipant(userID string) bool {
	return c.Participant1ID == userID || c.Participant2ID == userID
}

// Other returns the participant that is not userID.
func (c Conversation) Other(userID string) string {
	if c.Participant1ID == userID {
		return c.Participant2ID
	}
	return c.Participant1ID
}

// Message is a chat message.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Text           string
	CreatedAt      time.Time
}
