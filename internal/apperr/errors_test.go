package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsKind(t *testing.T) {
	err := NotFound("portfolio %s not found", "p1")
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindForbidden))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
	assert.False(t, IsKind(nil, KindNotFound))
}

func TestIsKind_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading: %w", Forbidden("denied"))
	assert.True(t, IsKind(err, KindForbidden))
}

func TestErrorIs_ComparesKinds(t *testing.T) {
	err := Conflict("locked")
	assert.True(t, errors.Is(err, &Error{Kind: KindConflict}))
	assert.False(t, errors.Is(err, &Error{Kind: KindValidation}))
}

func TestInvalidTransition_MessageAndTargets(t *testing.T) {
	err := InvalidTransition("SUBMITTED", "LOCKED", []string{"APPROVED", "REJECTED"})
	require.True(t, IsKind(err, KindInvalidTransition))
	assert.Equal(t, []string{"APPROVED", "REJECTED"}, err.AllowedTargets)
	assert.Contains(t, err.Error(), "APPROVED, REJECTED")

	terminal := InvalidTransition("ARCHIVED", "DRAFT", nil)
	assert.Contains(t, terminal.Error(), "terminal")
	assert.Empty(t, terminal.AllowedTargets)
}
