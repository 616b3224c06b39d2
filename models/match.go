package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchMatched  MatchStatus = "matched"
	MatchRejected MatchStatus = "rejected"
)

// Match is the one record of the relationship between two users. There is
// exactly one document per unordered pair, enforced by a unique index on
// PairKey. UserIDs is ordered: index 0 is the initiator, index 1 the
// recipient; only the recipient may accept or reject. Rejected matches are
// kept as tombstones so the pair cannot be recreated.
type Match struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PairKey string               `bson:"pairKey" json:"-"`
	UserIDs []primitive.ObjectID `bson:"userIds" json:"userIds"`
	Status  MatchStatus          `bson:"status" json:"status"`
	// Per-user read marks for unread counts: reader id (hex) -> unix millis
	// of the newest message the reader has seen.
	LastReadAt map[string]int64 `bson:"lastReadAt,omitempty" json:"-"`
	CreatedAt  int64            `bson:"createdAt" json:"createdAt"`
}

// PairKey builds the canonical key for an unordered pair: the
// lexicographically smaller hex id first. Using it as the sole lookup and
// creation key makes "does a match exist" a single read and removes the
// need to query both orderings of userIds.
func PairKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if strings.Compare(ah, bh) > 0 {
		ah, bh = bh, ah
	}
	return ah + ":" + bh
}

func (m *Match) Initiator() primitive.ObjectID { return m.UserIDs[0] }
func (m *Match) Recipient() primitive.ObjectID { return m.UserIDs[1] }

// OtherUser returns the counterpart of uid in the pair.
func (m *Match) OtherUser(uid primitive.ObjectID) (primitive.ObjectID, bool) {
	for _, id := range m.UserIDs {
		if id != uid {
			return id, true
		}
	}
	return primitive.NilObjectID, false
}

// Involves reports whether uid is one of the two participants.
func (m *Match) Involves(uid primitive.ObjectID) bool {
	for _, id := range m.UserIDs {
		if id == uid {
			return true
		}
	}
	return false
}
