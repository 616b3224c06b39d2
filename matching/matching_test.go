package matching_test

import (
	"context"
	"sync"
	"testing"

	"ametogo/matching"
	"ametogo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newService(store matching.Store) *matching.Service {
	return matching.NewService(store, func() int64 { return 1700000000 })
}

func TestSwipeRejectsSelfAndBadDecision(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	me := primitive.NewObjectID()

	_, err := svc.Swipe(context.Background(), me, me, models.SwipeLike)
	assert.ErrorIs(t, err, matching.ErrSelfSwipe)

	_, err = svc.Swipe(context.Background(), me, primitive.NewObjectID(), "superlike")
	assert.ErrorIs(t, err, matching.ErrBadDecision)
}

func TestPassRecordsLedgerWithoutMatch(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	res, err := svc.Swipe(context.Background(), a, b, models.SwipePass)
	require.NoError(t, err)
	assert.Nil(t, res.Match)
	assert.False(t, res.Mutual)

	d, ok, err := store.SwipeOf(context.Background(), a, b)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.SwipePass, d)
	assert.Zero(t, store.matchCount())
}

func TestLikeCreatesPendingMatch(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	res, err := svc.Swipe(context.Background(), a, b, models.SwipeLike)
	require.NoError(t, err)
	require.NotNil(t, res.Match)
	assert.False(t, res.Mutual)
	assert.Equal(t, models.MatchPending, res.Match.Status)
	assert.Equal(t, a, res.Match.Initiator())
	assert.Equal(t, b, res.Match.Recipient())
	assert.Equal(t, 1, store.matchCount())
}

func TestMutualLikeFastPath(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	// b liked a earlier without a match record having been created yet.
	require.NoError(t, store.SetSwipe(context.Background(), b, a, models.SwipeLike))

	res, err := svc.Swipe(context.Background(), a, b, models.SwipeLike)
	require.NoError(t, err)
	require.NotNil(t, res.Match)
	assert.True(t, res.Mutual)
	assert.Equal(t, models.MatchMatched, res.Match.Status)
	assert.Equal(t, 1, store.matchCount())
}

func TestLikeAnswersExistingProposal(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	// b proposed via like; a likes back through the swipe path.
	_, err := svc.Swipe(context.Background(), b, a, models.SwipeLike)
	require.NoError(t, err)

	res, err := svc.Swipe(context.Background(), a, b, models.SwipeLike)
	require.NoError(t, err)
	assert.True(t, res.Mutual)
	assert.Equal(t, models.MatchMatched, res.Match.Status)
	assert.Equal(t, 1, store.matchCount())
}

func TestRepeatedLikeIsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	first, err := svc.Swipe(context.Background(), a, b, models.SwipeLike)
	require.NoError(t, err)
	second, err := svc.Swipe(context.Background(), a, b, models.SwipeLike)
	require.NoError(t, err)

	assert.Equal(t, first.Match.ID, second.Match.ID)
	assert.Equal(t, models.MatchPending, second.Match.Status)
	assert.Equal(t, 1, store.matchCount())
}

// Both users observe the counterpart's pre-like ledger, so both try to
// create a pending record. The pair-keyed creation lets exactly one insert
// through; the loser recognizes the winner's proposal as the other half of
// a mutual like and promotes it.
func TestStaleMutualLikeConvergesToSingleMatch(t *testing.T) {
	store := newMemStore()
	blind := &blindStore{memStore: store}
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	// a's like runs against a stale view: b's like is invisible.
	require.NoError(t, store.SetSwipe(context.Background(), b, a, models.SwipeLike))
	res, err := newService(blind).Swipe(context.Background(), a, b, models.SwipeLike)
	require.NoError(t, err)
	assert.Equal(t, models.MatchPending, res.Match.Status)

	// b's like lands second and resolves the pair.
	res, err = newService(store).Swipe(context.Background(), b, a, models.SwipeLike)
	require.NoError(t, err)
	assert.True(t, res.Mutual)
	assert.Equal(t, models.MatchMatched, res.Match.Status)

	require.Equal(t, 1, store.matchCount())
	final := store.matchFor(models.PairKey(a, b))
	require.NotNil(t, final)
	assert.Equal(t, models.MatchMatched, final.Status)
}

// Truly concurrent mutual likes: whatever the interleaving, exactly one
// match document exists afterwards and its status is matched.
func TestConcurrentMutualLikeInvariant(t *testing.T) {
	for i := 0; i < 50; i++ {
		store := newMemStore()
		svc := newService(store)
		a, b := primitive.NewObjectID(), primitive.NewObjectID()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Swipe(context.Background(), a, b, models.SwipeLike)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.Swipe(context.Background(), b, a, models.SwipeLike)
			assert.NoError(t, err)
		}()
		wg.Wait()

		require.Equal(t, 1, store.matchCount())
		final := store.matchFor(models.PairKey(a, b))
		require.NotNil(t, final)
		assert.Equal(t, models.MatchMatched, final.Status)
	}
}

func TestAcceptOnlyByRecipient(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	res, err := svc.Swipe(context.Background(), a, b, models.SwipeLike)
	require.NoError(t, err)
	matchID := res.Match.ID

	// The initiator cannot accept their own proposal.
	_, err = svc.Accept(context.Background(), matchID, a)
	assert.ErrorIs(t, err, matching.ErrNotRecipient)
	unchanged := store.matchFor(models.PairKey(a, b))
	assert.Equal(t, models.MatchPending, unchanged.Status)

	// The recipient can.
	m, err := svc.Accept(context.Background(), matchID, b)
	require.NoError(t, err)
	assert.Equal(t, models.MatchMatched, m.Status)
}

func TestRejectIsTerminal(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	res, err := svc.Swipe(context.Background(), a, b, models.SwipeLike)
	require.NoError(t, err)

	m, err := svc.Reject(context.Background(), res.Match.ID, b)
	require.NoError(t, err)
	assert.Equal(t, models.MatchRejected, m.Status)

	// Accept after reject does nothing.
	_, err = svc.Accept(context.Background(), res.Match.ID, b)
	assert.ErrorIs(t, err, matching.ErrNotPending)

	// Re-liking a rejected pair leaves the tombstone alone.
	again, err := svc.Swipe(context.Background(), a, b, models.SwipeLike)
	require.NoError(t, err)
	assert.Equal(t, models.MatchRejected, again.Match.Status)
	assert.False(t, again.Mutual)
	assert.Equal(t, 1, store.matchCount())
}

func TestAcceptUnknownMatch(t *testing.T) {
	store := newMemStore()
	svc := newService(store)

	_, err := svc.Accept(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, matching.ErrNotFound)
}

func TestProposeReportsExistingState(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	m, err := svc.Propose(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, models.MatchPending, m.Status)
	assert.Equal(t, "pending-them", matching.RelationTo(m, a))
	assert.Equal(t, "pending-you", matching.RelationTo(m, b))

	// Proposing again, from either side, returns the same record.
	again, err := svc.Propose(context.Background(), b, a)
	require.NoError(t, err)
	assert.Equal(t, m.ID, again.ID)
	assert.Equal(t, 1, store.matchCount())
}

func TestPairKeyIsCanonical(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	assert.Equal(t, models.PairKey(a, b), models.PairKey(b, a))
	assert.NotEqual(t, models.PairKey(a, b), models.PairKey(a, primitive.NewObjectID()))
}
