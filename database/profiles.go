package database

import (
	"context"

	"ametogo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) ProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DiscoverBatch returns one batch of candidate profiles for the feed. The
// batch is capped and carries no pagination cursor across calls: a user can
// exhaust it and see an empty feed while more eligible profiles exist
// server-side. Kept that way on purpose; filtering happens client-side in
// the feed builder, like the backing query it replaces.
func (s *Store) DiscoverBatch(ctx context.Context, limit int64) ([]models.Profile, error) {
	cursor, err := s.Users.Find(ctx,
		bson.M{"accountStatus": bson.M{"$ne": "banned"}},
		options.Find().SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// SetSwipe appends or overwrites one entry of the subject's swipe ledger.
// Last write wins per key, so re-swiping the same target is a no-op in
// effect. The write result is returned to the caller; a failed save must be
// surfaced, not assumed.
func (s *Store) SetSwipe(ctx context.Context, userID, targetID primitive.ObjectID, decision models.SwipeDecision) error {
	res, err := s.Users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"swipes." + targetID.Hex(): decision}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SwipeOf reads a single ledger entry of owner about target.
func (s *Store) SwipeOf(ctx context.Context, ownerID, targetID primitive.ObjectID) (models.SwipeDecision, bool, error) {
	var p models.Profile
	err := s.Users.FindOne(ctx,
		bson.M{"_id": ownerID},
		options.FindOne().SetProjection(bson.M{"swipes": 1}),
	).Decode(&p)
	if err != nil {
		return "", false, err
	}
	d, ok := p.Swipes[targetID.Hex()]
	return d, ok, nil
}
