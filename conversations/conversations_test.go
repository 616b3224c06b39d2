package conversations_test

import (
	"context"
	"errors"
	"testing"

	"ametogo/conversations"
	"ametogo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	matches  []models.Match
	profiles map[primitive.ObjectID]*models.Profile
	lastMsgs map[primitive.ObjectID]*models.Message
	unread   map[primitive.ObjectID]int64
}

func (f *fakeStore) MatchedFor(_ context.Context, uid primitive.ObjectID) ([]models.Match, error) {
	var out []models.Match
	for _, m := range f.matches {
		if m.Status == models.MatchMatched && m.Involves(uid) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) ProfileByID(_ context.Context, id primitive.ObjectID) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, errors.New("no such profile")
	}
	return p, nil
}

func (f *fakeStore) LastMessage(_ context.Context, matchID primitive.ObjectID) (*models.Message, error) {
	return f.lastMsgs[matchID], nil
}

func (f *fakeStore) UnreadCount(_ context.Context, matchID, _ primitive.ObjectID, _ int64) (int64, error) {
	return f.unread[matchID], nil
}

func match(a, b primitive.ObjectID, status models.MatchStatus) models.Match {
	return models.Match{
		ID:      primitive.NewObjectID(),
		PairKey: models.PairKey(a, b),
		UserIDs: []primitive.ObjectID{a, b},
		Status:  status,
	}
}

func TestAssembleOnlyMatchedRelations(t *testing.T) {
	me := primitive.NewObjectID()
	friend := primitive.NewObjectID()
	pendingOther := primitive.NewObjectID()
	rejectedOther := primitive.NewObjectID()

	store := &fakeStore{
		matches: []models.Match{
			match(me, friend, models.MatchMatched),
			match(pendingOther, me, models.MatchPending),
			match(me, rejectedOther, models.MatchRejected),
		},
		profiles: map[primitive.ObjectID]*models.Profile{
			friend:        {ID: friend, Name: "Afi"},
			pendingOther:  {ID: pendingOther, Name: "Koffi"},
			rejectedOther: {ID: rejectedOther, Name: "Yao"},
		},
		lastMsgs: map[primitive.ObjectID]*models.Message{},
		unread:   map[primitive.ObjectID]int64{},
	}

	convos, err := conversations.Assemble(context.Background(), store, me)
	require.NoError(t, err)
	require.Len(t, convos, 1)
	assert.Equal(t, "Afi", convos[0].OtherUser.Name)
}

func TestAssembleSortsByRecencyWithFloorForEmpty(t *testing.T) {
	me := primitive.NewObjectID()
	oldFriend := primitive.NewObjectID()
	newFriend := primitive.NewObjectID()
	silentFriend := primitive.NewObjectID()

	mOld := match(me, oldFriend, models.MatchMatched)
	mNew := match(newFriend, me, models.MatchMatched)
	mSilent := match(me, silentFriend, models.MatchMatched)

	store := &fakeStore{
		matches: []models.Match{mSilent, mOld, mNew},
		profiles: map[primitive.ObjectID]*models.Profile{
			oldFriend:    {ID: oldFriend, Name: "Ama"},
			newFriend:    {ID: newFriend, Name: "Kwame"},
			silentFriend: {ID: silentFriend, Name: "Esi"},
		},
		lastMsgs: map[primitive.ObjectID]*models.Message{
			mOld.ID: {MatchID: mOld.ID, Text: "salut", Timestamp: 100},
			mNew.ID: {MatchID: mNew.ID, Text: "ça va ?", Timestamp: 200},
		},
		unread: map[primitive.ObjectID]int64{mNew.ID: 3},
	}

	convos, err := conversations.Assemble(context.Background(), store, me)
	require.NoError(t, err)
	require.Len(t, convos, 3)
	assert.Equal(t, "Kwame", convos[0].OtherUser.Name)
	assert.Equal(t, "Ama", convos[1].OtherUser.Name)
	assert.Equal(t, "Esi", convos[2].OtherUser.Name)
	assert.Nil(t, convos[2].LastMessage)
	assert.Equal(t, int64(3), convos[0].UnreadCount)
}

func TestAssembleSkipsUnresolvableCounterpart(t *testing.T) {
	me := primitive.NewObjectID()
	friend := primitive.NewObjectID()
	ghost := primitive.NewObjectID()

	store := &fakeStore{
		matches: []models.Match{
			match(me, friend, models.MatchMatched),
			match(me, ghost, models.MatchMatched),
		},
		profiles: map[primitive.ObjectID]*models.Profile{
			friend: {ID: friend, Name: "Adjoa"},
		},
		lastMsgs: map[primitive.ObjectID]*models.Message{},
		unread:   map[primitive.ObjectID]int64{},
	}

	convos, err := conversations.Assemble(context.Background(), store, me)
	require.NoError(t, err)
	require.Len(t, convos, 1)
	assert.Equal(t, "Adjoa", convos[0].OtherUser.Name)
}

func TestBothSidesSeeTheConversation(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	m := match(a, b, models.MatchMatched)

	store := &fakeStore{
		matches: []models.Match{m},
		profiles: map[primitive.ObjectID]*models.Profile{
			a: {ID: a, Name: "Abena"},
			b: {ID: b, Name: "Kojo"},
		},
		lastMsgs: map[primitive.ObjectID]*models.Message{},
		unread:   map[primitive.ObjectID]int64{},
	}

	forA, err := conversations.Assemble(context.Background(), store, a)
	require.NoError(t, err)
	forB, err := conversations.Assemble(context.Background(), store, b)
	require.NoError(t, err)

	require.Len(t, forA, 1)
	require.Len(t, forB, 1)
	assert.Equal(t, "Kojo", forA[0].OtherUser.Name)
	assert.Equal(t, "Abena", forB[0].OtherUser.Name)
}
