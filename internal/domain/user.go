package domain

import "time"

type User struct {
	ID   string
	Name string
	Role Role

	// AssignedPortfolioID is set only for program managers, who manage
	// exactly one portfolio at a time.
	AssignedPortfolioID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the identity a request acts under, as resolved by the caller
// (token verification is outside this core). A zero Actor means no identity.
type Actor struct {
	UserID              string
	Role                Role
	AssignedPortfolioID *string
}

// ActorFor builds an Actor from a stored user.
func ActorFor(u *User) Actor {
	return Actor{
		UserID:              u.ID,
		Role:                u.Role,
		AssignedPortfolioID: u.AssignedPortfolioID,
	}
}
