// Package conversations derives the chat list: one conversation per
// confirmed match, with the counterpart's profile, the latest message and
// the unread count. Nothing here is persisted; the list is recomputed from
// the match set and the message collections on every request.
package conversations

import (
	"context"
	"sort"

	"ametogo/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store interface {
	MatchedFor(ctx context.Context, uid primitive.ObjectID) ([]models.Match, error)
	ProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
	LastMessage(ctx context.Context, matchID primitive.ObjectID) (*models.Message, error)
	UnreadCount(ctx context.Context, matchID, readerID primitive.ObjectID, after int64) (int64, error)
}

// Assemble builds selfID's conversation list. Only matches with status
// matched contribute; pending and rejected relations never surface here.
// Sorted by last-message recency, newest first; conversations without any
// message sort as oldest. A match whose counterpart profile cannot be
// resolved is skipped rather than failing the whole list.
func Assemble(ctx context.Context, store Store, selfID primitive.ObjectID) ([]models.Conversation, error) {
	matches, err := store.MatchedFor(ctx, selfID)
	if err != nil {
		return nil, err
	}

	convos := make([]models.Conversation, 0, len(matches))
	for _, m := range matches {
		otherID, ok := m.OtherUser(selfID)
		if !ok {
			continue
		}
		other, err := store.ProfileByID(ctx, otherID)
		if err != nil {
			continue
		}
		last, err := store.LastMessage(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		unread, err := store.UnreadCount(ctx, m.ID, selfID, m.LastReadAt[selfID.Hex()])
		if err != nil {
			return nil, err
		}
		convos = append(convos, models.Conversation{
			ID:          m.ID,
			OtherUser:   other,
			LastMessage: last,
			UnreadCount: unread,
		})
	}

	sort.SliceStable(convos, func(i, j int) bool {
		return lastTime(convos[i]) > lastTime(convos[j])
	})
	return convos, nil
}

// lastTime is the sort key; the zero floor puts message-less matches last.
func lastTime(c models.Conversation) int64 {
	if c.LastMessage == nil {
		return 0
	}
	return c.LastMessage.Timestamp
}
