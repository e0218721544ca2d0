package governance

import (
	"testing"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allGovernanceStates = []domain.GovernanceState{
	domain.StateDraft, domain.StateSubmitted, domain.StateApproved,
	domain.StateRejected, domain.StateLocked, domain.StateArchived,
}

var allFeatureStates = []domain.FeatureState{
	domain.FeatureDiscovery, domain.FeatureReady, domain.FeatureInProgress,
	domain.FeatureReleased, domain.FeatureArchived,
}

func TestCanTransition_FullMatrix(t *testing.T) {
	legal := map[domain.GovernanceState]map[domain.GovernanceState]bool{
		domain.StateDraft:     {domain.StateSubmitted: true},
		domain.StateSubmitted: {domain.StateApproved: true, domain.StateRejected: true},
		domain.StateRejected:  {domain.StateSubmitted: true},
		domain.StateApproved:  {domain.StateLocked: true, domain.StateArchived: true},
		domain.StateLocked:    {domain.StateApproved: true},
		domain.StateArchived:  {},
	}

	for _, from := range allGovernanceStates {
		for _, target := range allGovernanceStates {
			got := CanTransition(from, target)
			want := legal[from][target]
			assert.Equal(t, want, got, "%s -> %s", from, target)
		}
	}
}

func TestCanTransitionFeature_FullMatrix(t *testing.T) {
	legal := map[domain.FeatureState]map[domain.FeatureState]bool{
		domain.FeatureDiscovery:  {domain.FeatureReady: true},
		domain.FeatureReady:      {domain.FeatureInProgress: true, domain.FeatureDiscovery: true},
		domain.FeatureInProgress: {domain.FeatureReleased: true, domain.FeatureReady: true},
		domain.FeatureReleased:   {domain.FeatureArchived: true},
		domain.FeatureArchived:   {},
	}

	for _, from := range allFeatureStates {
		for _, target := range allFeatureStates {
			got := CanTransitionFeature(from, target)
			want := legal[from][target]
			assert.Equal(t, want, got, "%s -> %s", from, target)
		}
	}
}

func TestValidate_IllegalEdgeEnumeratesTargets(t *testing.T) {
	err := Validate(domain.StateDraft, domain.StateApproved)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"SUBMITTED"}, appErr.AllowedTargets)
	assert.Contains(t, appErr.Message, "SUBMITTED")
}

func TestValidate_TerminalStateHasNoTargets(t *testing.T) {
	err := Validate(domain.StateArchived, domain.StateDraft)
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Empty(t, appErr.AllowedTargets)
	assert.Contains(t, appErr.Message, "terminal")
}

func TestValidate_LegalEdge(t *testing.T) {
	require.NoError(t, Validate(domain.StateDraft, domain.StateSubmitted))
	require.NoError(t, Validate(domain.StateLocked, domain.StateApproved))
}

func TestValidate_RejectionCycleRepeats(t *testing.T) {
	// REJECTED -> SUBMITTED -> REJECTED may loop indefinitely.
	require.NoError(t, Validate(domain.StateRejected, domain.StateSubmitted))
	require.NoError(t, Validate(domain.StateSubmitted, domain.StateRejected))
	require.NoError(t, Validate(domain.StateRejected, domain.StateSubmitted))
}

func TestAllowedSuccessors(t *testing.T) {
	assert.ElementsMatch(t,
		[]domain.GovernanceState{domain.StateLocked, domain.StateArchived},
		AllowedSuccessors(domain.StateApproved))
	assert.Empty(t, AllowedSuccessors(domain.StateArchived))
	assert.Empty(t, AllowedFeatureSuccessors(domain.FeatureArchived))
}
