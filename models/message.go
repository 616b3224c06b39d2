package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Message belongs to a match and is immutable once written. Timestamp is
// assigned by the store at write time (unix millis) and is the sole
// ordering authority for chat display.
type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MatchID     primitive.ObjectID `bson:"matchId" json:"matchId"`
	SenderID    primitive.ObjectID `bson:"senderId" json:"senderId"`
	RecipientID primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	Text        string             `bson:"text" json:"text"`
	Timestamp   int64              `bson:"timestamp" json:"timestamp"`
}

// Conversation is derived per matched relation; it is never persisted.
type Conversation struct {
	ID          primitive.ObjectID `json:"id"` // the match id
	OtherUser   *Profile           `json:"otherUser"`
	LastMessage *Message           `json:"lastMessage"`
	UnreadCount int64              `json:"unreadCount"`
}
