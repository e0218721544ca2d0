// Package governance holds the fixed per-entity-type transition tables and
// the validation logic over them. The tables are data, not configuration:
// they never change at runtime.
package governance

import (
	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/domain"
)

// approvalTransitions is the shared table for Portfolio, Product, and
// Release governance. ARCHIVED is terminal.
var approvalTransitions = map[domain.GovernanceState][]domain.GovernanceState{
	domain.StateDraft:     {domain.StateSubmitted},
	domain.StateSubmitted: {domain.StateApproved, domain.StateRejected},
	domain.StateRejected:  {domain.StateSubmitted},
	domain.StateApproved:  {domain.StateLocked, domain.StateArchived},
	domain.StateLocked:    {domain.StateApproved},
	domain.StateArchived:  {},
}

// featureTransitions is the feature lifecycle table. ARCHIVED is terminal.
var featureTransitions = map[domain.FeatureState][]domain.FeatureState{
	domain.FeatureDiscovery:  {domain.FeatureReady},
	domain.FeatureReady:      {domain.FeatureInProgress, domain.FeatureDiscovery},
	domain.FeatureInProgress: {domain.FeatureReleased, domain.FeatureReady},
	domain.FeatureReleased:   {domain.FeatureArchived},
	domain.FeatureArchived:   {},
}

// AllowedSuccessors returns the legal targets from the given governance
// state. The returned slice must not be mutated.
func AllowedSuccessors(from domain.GovernanceState) []domain.GovernanceState {
	return approvalTransitions[from]
}

// AllowedFeatureSuccessors returns the legal targets from the given feature
// lifecycle state.
func AllowedFeatureSuccessors(from domain.FeatureState) []domain.FeatureState {
	return featureTransitions[from]
}

// CanTransition reports whether target is a declared successor of from.
func CanTransition(from, target domain.GovernanceState) bool {
	for _, s := range approvalTransitions[from] {
		if s == target {
			return true
		}
	}
	return false
}

// CanTransitionFeature reports whether target is a declared successor of
// from in the feature lifecycle.
func CanTransitionFeature(from, target domain.FeatureState) bool {
	for _, s := range featureTransitions[from] {
		if s == target {
			return true
		}
	}
	return false
}

// Validate returns an InvalidTransition error enumerating the legal target
// set when from→target is not a declared edge, nil otherwise.
func Validate(from, target domain.GovernanceState) error {
	if CanTransition(from, target) {
		return nil
	}
	targets := make([]string, 0, len(approvalTransitions[from]))
	for _, s := range approvalTransitions[from] {
		targets = append(targets, string(s))
	}
	return apperr.InvalidTransition(string(from), string(target), targets)
}

// ValidateFeature is Validate for the feature lifecycle table.
func ValidateFeature(from, target domain.FeatureState) error {
	if CanTransitionFeature(from, target) {
		return nil
	}
	targets := make([]string, 0, len(featureTransitions[from]))
	for _, s := range featureTransitions[from] {
		targets = append(targets, string(s))
	}
	return apperr.InvalidTransition(string(from), string(target), targets)
}
