package database

import (
	"context"

	"ametogo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIfAbsent inserts m unless a match already exists for its pair key.
// It returns the stored document and whether this call inserted it. The
// upsert is keyed on the unique pairKey index, so two concurrent likes for
// the same pair can never produce two documents: exactly one caller inserts,
// the other gets the winner's document back.
func (s *Store) CreateIfAbsent(ctx context.Context, m *models.Match) (*models.Match, bool, error) {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}

	res := s.Matches.FindOneAndUpdate(ctx,
		bson.M{"pairKey": m.PairKey},
		bson.M{"$setOnInsert": bson.M{
			"_id":       m.ID,
			"pairKey":   m.PairKey,
			"userIds":   m.UserIDs,
			"status":    m.Status,
			"createdAt": m.CreatedAt,
		}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.Before),
	)

	var existing models.Match
	err := res.Decode(&existing)
	if err == mongo.ErrNoDocuments {
		// No prior document: the upsert inserted ours.
		return m, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// PromoteIfPending atomically flips a pending match to matched. Reports
// whether the transition happened; a match that was concurrently accepted,
// rejected or already promoted is left alone.
func (s *Store) PromoteIfPending(ctx context.Context, matchID primitive.ObjectID) (bool, error) {
	res, err := s.Matches.UpdateOne(ctx,
		bson.M{"_id": matchID, "status": models.MatchPending},
		bson.M{"$set": bson.M{"status": models.MatchMatched}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// UpdateStatusAsRecipient transitions a pending match, but only when uid is
// the recipient (userIds[1]). The ownership check lives inside the filter so
// the permission rule and the state transition are one atomic operation.
func (s *Store) UpdateStatusAsRecipient(ctx context.Context, matchID, uid primitive.ObjectID, status models.MatchStatus) (bool, error) {
	res, err := s.Matches.UpdateOne(ctx,
		bson.M{"_id": matchID, "status": models.MatchPending, "userIds.1": uid},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// MatchByPair looks up the single match record for an unordered pair, in
// either role order. Returns nil without error when the pair has none.
func (s *Store) MatchByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Match, error) {
	var m models.Match
	err := s.Matches.FindOne(ctx, bson.M{"pairKey": models.PairKey(a, b)}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) MatchByID(ctx context.Context, id primitive.ObjectID) (*models.Match, error) {
	var m models.Match
	if err := s.Matches.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MatchesFor returns every match involving uid, any status. An equality
// filter on an array field matches array membership, so this is the
// array-contains query over userIds.
func (s *Store) MatchesFor(ctx context.Context, uid primitive.ObjectID) ([]models.Match, error) {
	return s.findMatches(ctx, bson.M{"userIds": uid})
}

// MatchedFor returns only confirmed matches involving uid.
func (s *Store) MatchedFor(ctx context.Context, uid primitive.ObjectID) ([]models.Match, error) {
	return s.findMatches(ctx, bson.M{"userIds": uid, "status": models.MatchMatched})
}

func (s *Store) findMatches(ctx context.Context, filter bson.M) ([]models.Match, error) {
	cursor, err := s.Matches.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var matches []models.Match
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// SetLastRead records the newest message timestamp uid has seen in a match.
func (s *Store) SetLastRead(ctx context.Context, matchID, uid primitive.ObjectID, ts int64) error {
	_, err := s.Matches.UpdateOne(ctx,
		bson.M{"_id": matchID},
		bson.M{"$set": bson.M{"lastReadAt." + uid.Hex(): ts}},
	)
	return err
}
