// Package feed builds the discovery stack: the ordered pile of unseen
// candidate profiles a user swipes through.
package feed

import (
	"ametogo/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// All is the wildcard filter value.
const All = "all"

// BatchSize caps how many candidates one feed build considers. There is no
// pagination cursor across batches.
const BatchSize = 30

// Filters are applied conjunctively. Empty values mean "all".
type Filters struct {
	City        string `form:"city"`
	Gender      string `form:"gender"`
	ProfileType string `form:"profileType"`
}

func (f Filters) matches(p *models.Profile) bool {
	if f.City != "" && f.City != All && p.City != f.City {
		return false
	}
	if f.Gender != "" && f.Gender != All && p.Gender != f.Gender {
		return false
	}
	if f.ProfileType != "" && f.ProfileType != All {
		found := false
		for _, t := range p.ProfileTypes {
			if t == f.ProfileType {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Build produces the swipe stack from one candidate batch. The caller's own
// profile and every profile already in the swipe ledger are excluded, then
// the filters apply. The result is ordered so the LAST element is the top
// card: showing the next profile is a read of the tail and consuming it is
// an O(1) pop instead of a shift.
//
// Build is deterministic for identical inputs and promises nothing about
// freshness beyond the snapshot it was given. An empty result is the normal
// "no more profiles" terminal state, not an error.
func Build(all []models.Profile, selfID primitive.ObjectID, swiped map[string]models.SwipeDecision, f Filters) []models.Profile {
	stack := make([]models.Profile, 0, len(all))
	for _, p := range all {
		if p.ID == selfID {
			continue
		}
		if _, seen := swiped[p.ID.Hex()]; seen {
			continue
		}
		if !f.matches(&p) {
			continue
		}
		stack = append(stack, p)
	}

	// Reverse so the batch's first candidate ends up on top of the stack.
	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}
	return stack
}

// Top returns the next card to show, i.e. the last element.
func Top(stack []models.Profile) (*models.Profile, bool) {
	if len(stack) == 0 {
		return nil, false
	}
	return &stack[len(stack)-1], true
}

// Cities lists the distinct candidate cities for the filter dropdown,
// in first-seen order.
func Cities(all []models.Profile) []string {
	seen := make(map[string]bool)
	var cities []string
	for _, p := range all {
		if p.City == "" || seen[p.City] {
			continue
		}
		seen[p.City] = true
		cities = append(cities, p.City)
	}
	return cities
}
