package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store bundles the collection handles. It is built once in main and passed
// to every consumer explicitly; there are no package-level singletons.
type Store struct {
	Client        *mongo.Client
	Users         *mongo.Collection
	Matches       *mongo.Collection
	Messages      *mongo.Collection
	Subscriptions *mongo.Collection
	Reports       *mongo.Collection
}

func Connect(uri string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database("ametogo")
	s := &Store{
		Client:        client,
		Users:         db.Collection("users"),
		Matches:       db.Collection("matches"),
		Messages:      db.Collection("chat_messages"),
		Subscriptions: db.Collection("subscriptions"),
		Reports:       db.Collection("reports"),
	}

	log.Println("Connected to MongoDB successfully")
	return s, nil
}

// EnsureIndexes creates the indexes the core invariants depend on. The
// unique index on matches.pairKey is what makes "one match per unordered
// pair" structural rather than best-effort.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.Matches.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pairKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userIds", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = s.Messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "matchId", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return err
	}

	_, err = s.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) Disconnect() error {
	if s.Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Client.Disconnect(ctx); err != nil {
		return err
	}

	log.Println("Disconnected from MongoDB")
	return nil
}
