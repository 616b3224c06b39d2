// Package matching owns the pairwise relationship state machine:
// none -> pending -> matched, or pending -> rejected. A rejected pair is a
// terminal tombstone; nothing brings it back.
package matching

import (
	"context"
	"errors"

	"ametogo/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSelfSwipe    = errors.New("cannot swipe on yourself")
	ErrBadDecision  = errors.New("unknown swipe decision")
	ErrNotRecipient = errors.New("only the recipient may act on a pending match")
	ErrNotPending   = errors.New("match is not pending")
	ErrNotFound     = errors.New("match not found")
)

// Store is the slice of persistence the state machine needs. The mongo
// implementation lives in the database package; tests substitute a mock.
// CreateIfAbsent and UpdateStatusAsRecipient must be atomic: the former
// keyed on the canonical pair key, the latter folding the recipient check
// into the update itself.
type Store interface {
	SetSwipe(ctx context.Context, userID, targetID primitive.ObjectID, decision models.SwipeDecision) error
	SwipeOf(ctx context.Context, ownerID, targetID primitive.ObjectID) (models.SwipeDecision, bool, error)
	CreateIfAbsent(ctx context.Context, m *models.Match) (*models.Match, bool, error)
	PromoteIfPending(ctx context.Context, matchID primitive.ObjectID) (bool, error)
	UpdateStatusAsRecipient(ctx context.Context, matchID, uid primitive.ObjectID, status models.MatchStatus) (bool, error)
	MatchByID(ctx context.Context, id primitive.ObjectID) (*models.Match, error)
}

type Service struct {
	store Store
	now   func() int64 // unix seconds, swappable in tests
}

func NewService(store Store, now func() int64) *Service {
	return &Service{store: store, now: now}
}

// SwipeResult reports what one swipe did to the pair's relationship.
type SwipeResult struct {
	Match  *models.Match
	Mutual bool // the swipe completed a mutual like
}

// Swipe records the decision on the subject's ledger and, for a like, runs
// the match transition. The ledger write comes first and its failure is
// returned as-is: the caller must not pretend the card was consumed when
// nothing was saved.
func (s *Service) Swipe(ctx context.Context, me, target primitive.ObjectID, decision models.SwipeDecision) (*SwipeResult, error) {
	if me == target {
		return nil, ErrSelfSwipe
	}
	if decision != models.SwipeLike && decision != models.SwipePass {
		return nil, ErrBadDecision
	}

	if err := s.store.SetSwipe(ctx, me, target, decision); err != nil {
		return nil, err
	}
	if decision == models.SwipePass {
		return &SwipeResult{}, nil
	}
	return s.like(ctx, me, target)
}

// like drives none -> pending, with the mutual fast path straight to
// matched when the counterpart's ledger already records a like back.
//
// The check-then-act window is closed structurally. Both concurrent likers
// may observe the other's pre-like ledger, but CreateIfAbsent is keyed on
// the canonical pair key: exactly one insert wins. The loser sees a pending
// record initiated by its own target, which is itself proof of the mutual
// like, and promotes it. Every interleaving ends with one document, status
// matched.
func (s *Service) like(ctx context.Context, me, target primitive.ObjectID) (*SwipeResult, error) {
	theirSwipe, ok, err := s.store.SwipeOf(ctx, target, me)
	if err != nil {
		return nil, err
	}
	likesMe := ok && theirSwipe == models.SwipeLike

	status := models.MatchPending
	if likesMe {
		status = models.MatchMatched
	}
	proposed := &models.Match{
		PairKey:   models.PairKey(me, target),
		UserIDs:   []primitive.ObjectID{me, target},
		Status:    status,
		CreatedAt: s.now(),
	}

	stored, created, err := s.store.CreateIfAbsent(ctx, proposed)
	if err != nil {
		return nil, err
	}
	if created {
		return &SwipeResult{Match: stored, Mutual: likesMe}, nil
	}

	// A record already existed for the pair.
	switch stored.Status {
	case models.MatchPending:
		if stored.Initiator() == target {
			// They proposed first; my like answers it.
			promoted, err := s.store.PromoteIfPending(ctx, stored.ID)
			if err != nil {
				return nil, err
			}
			if promoted {
				stored.Status = models.MatchMatched
			}
			return &SwipeResult{Match: stored, Mutual: true}, nil
		}
		// I already proposed; re-liking changes nothing.
		return &SwipeResult{Match: stored}, nil
	case models.MatchMatched:
		return &SwipeResult{Match: stored, Mutual: true}, nil
	default:
		// Rejected is terminal; the tombstone stays as is.
		return &SwipeResult{Match: stored}, nil
	}
}

// Propose is the explicit "Matcher" action from a profile page. Unlike
// Swipe it touches no ledger; it only ensures a pending record exists and
// reports the pair's current state.
func (s *Service) Propose(ctx context.Context, me, target primitive.ObjectID) (*models.Match, error) {
	if me == target {
		return nil, ErrSelfSwipe
	}
	proposed := &models.Match{
		PairKey:   models.PairKey(me, target),
		UserIDs:   []primitive.ObjectID{me, target},
		Status:    models.MatchPending,
		CreatedAt: s.now(),
	}
	stored, _, err := s.store.CreateIfAbsent(ctx, proposed)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Accept transitions pending -> matched. Only the recipient may accept; an
// attempt by the initiator fails with ErrNotRecipient and changes nothing.
func (s *Service) Accept(ctx context.Context, matchID, uid primitive.ObjectID) (*models.Match, error) {
	return s.resolve(ctx, matchID, uid, models.MatchMatched)
}

// Reject transitions pending -> rejected, the terminal tombstone state.
func (s *Service) Reject(ctx context.Context, matchID, uid primitive.ObjectID) (*models.Match, error) {
	return s.resolve(ctx, matchID, uid, models.MatchRejected)
}

func (s *Service) resolve(ctx context.Context, matchID, uid primitive.ObjectID, status models.MatchStatus) (*models.Match, error) {
	done, err := s.store.UpdateStatusAsRecipient(ctx, matchID, uid, status)
	if err != nil {
		return nil, err
	}
	if done {
		m, err := s.store.MatchByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return m, nil
	}

	// Nothing was modified; find out why to report a precise error.
	m, err := s.store.MatchByID(ctx, matchID)
	if err != nil {
		return nil, ErrNotFound
	}
	if m.Status != models.MatchPending {
		return nil, ErrNotPending
	}
	if m.Recipient() != uid {
		return nil, ErrNotRecipient
	}
	return nil, ErrNotPending
}

// RelationTo classifies the pair state from uid's point of view, for the
// profile page button: none, pending-you (they proposed, you decide),
// pending-them (you proposed, waiting), matched or rejected.
func RelationTo(m *models.Match, uid primitive.ObjectID) string {
	if m == nil {
		return "none"
	}
	switch m.Status {
	case models.MatchMatched:
		return "matched"
	case models.MatchRejected:
		return "rejected"
	default:
		if m.Initiator() == uid {
			return "pending-them"
		}
		return "pending-you"
	}
}
