package matching_test

import (
	"context"
	"errors"
	"sync"

	"ametogo/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNotFound = errors.New("match not found")

// memStore is an in-memory stand-in for the mongo store. Every method holds
// the mutex for its whole body, mirroring the atomicity the real
// implementation gets from single-document operations and the unique
// pairKey index.
type memStore struct {
	mu      sync.Mutex
	swipes  map[string]map[string]models.SwipeDecision // owner hex -> target hex -> decision
	matches map[string]*models.Match                   // pairKey -> match
}

func newMemStore() *memStore {
	return &memStore{
		swipes:  make(map[string]map[string]models.SwipeDecision),
		matches: make(map[string]*models.Match),
	}
}

func (s *memStore) SetSwipe(_ context.Context, userID, targetID primitive.ObjectID, decision models.SwipeDecision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger := s.swipes[userID.Hex()]
	if ledger == nil {
		ledger = make(map[string]models.SwipeDecision)
		s.swipes[userID.Hex()] = ledger
	}
	ledger[targetID.Hex()] = decision
	return nil
}

func (s *memStore) SwipeOf(_ context.Context, ownerID, targetID primitive.ObjectID) (models.SwipeDecision, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.swipes[ownerID.Hex()][targetID.Hex()]
	return d, ok, nil
}

func (s *memStore) CreateIfAbsent(_ context.Context, m *models.Match) (*models.Match, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.matches[m.PairKey]; ok {
		cp := *existing
		return &cp, false, nil
	}
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	cp := *m
	s.matches[m.PairKey] = &cp
	out := cp
	return &out, true, nil
}

func (s *memStore) PromoteIfPending(_ context.Context, matchID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.ID == matchID && m.Status == models.MatchPending {
			m.Status = models.MatchMatched
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) UpdateStatusAsRecipient(_ context.Context, matchID, uid primitive.ObjectID, status models.MatchStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.ID == matchID && m.Status == models.MatchPending && m.Recipient() == uid {
			m.Status = status
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) MatchByID(_ context.Context, id primitive.ObjectID) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (s *memStore) matchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

func (s *memStore) matchFor(pairKey string) *models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.matches[pairKey]; ok {
		cp := *m
		return &cp
	}
	return nil
}

// blindStore wraps memStore but reports an empty ledger from SwipeOf,
// simulating a reader that observes the counterpart's pre-like state.
type blindStore struct {
	*memStore
}

func (s *blindStore) SwipeOf(context.Context, primitive.ObjectID, primitive.ObjectID) (models.SwipeDecision, bool, error) {
	return "", false, nil
}
