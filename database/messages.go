package database

import (
	"context"
	"time"

	"ametogo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertMessage appends a message to its match. The timestamp is assigned
// here, at write time, and is the only ordering authority for the chat.
func (s *Store) InsertMessage(ctx context.Context, m *models.Message) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	m.Timestamp = time.Now().UnixMilli()
	_, err := s.Messages.InsertOne(ctx, m)
	return err
}

func (s *Store) MessagesFor(ctx context.Context, matchID primitive.ObjectID) ([]models.Message, error) {
	cursor, err := s.Messages.Find(ctx,
		bson.M{"matchId": matchID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// LastMessage returns the most recent message of a match, or nil when the
// conversation has none yet.
func (s *Store) LastMessage(ctx context.Context, matchID primitive.ObjectID) (*models.Message, error) {
	var m models.Message
	err := s.Messages.FindOne(ctx,
		bson.M{"matchId": matchID},
		options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UnreadCount counts counterpart messages newer than the reader's read mark.
func (s *Store) UnreadCount(ctx context.Context, matchID, readerID primitive.ObjectID, after int64) (int64, error) {
	return s.Messages.CountDocuments(ctx, bson.M{
		"matchId":   matchID,
		"senderId":  bson.M{"$ne": readerID},
		"timestamp": bson.M{"$gt": after},
	})
}
