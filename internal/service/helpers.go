package service

import (
	"context"
	"time"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/authz"
	"github.com/alexanderramin/steward/internal/domain"
)

// authorize maps a permission-engine decision onto the error taxonomy: no
// identity is Unauthorized, a denial is Forbidden, a store failure passes
// through.
func authorize(ctx context.Context, engine *authz.Engine, actor domain.Actor, action authz.Action) error {
	if actor.UserID == "" {
		return apperr.Unauthorized("no actor identity")
	}
	ok, err := engine.CanPerform(ctx, actor, action)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("%s is not permitted to %s", actor.UserID, action.Name())
	}
	return nil
}

// validateCurrency enforces the 3-uppercase-letter currency code convention.
func validateCurrency(code string) error {
	if len(code) != 3 {
		return apperr.Validation("currency %q must be a 3-letter code", code)
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return apperr.Validation("currency %q must be uppercase letters", code)
		}
	}
	return nil
}

// parseEntryDate parses a YYYY-MM-DD input date.
func parseEntryDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
