package service

import (
	"context"
	"time"

	"github.com/alexanderramin/steward/internal/apperr"
	"github.com/alexanderramin/steward/internal/authz"
	"github.com/alexanderramin/steward/internal/domain"
	"github.com/alexanderramin/steward/internal/repository"
	"github.com/google/uuid"
)

type userService struct {
	engine      *authz.Engine
	users       repository.UserRepo
	assignments repository.AssignmentRepo
	portfolios  repository.PortfolioRepo
	products    repository.ProductRepo
	audit       AuditSink
}

func NewUserService(engine *authz.Engine, users repository.UserRepo, assignments repository.AssignmentRepo, portfolios repository.PortfolioRepo, products repository.ProductRepo, audit AuditSink) UserService {
	return &userService{
		engine:      engine,
		users:       users,
		assignments: assignments,
		portfolios:  portfolios,
		products:    products,
		audit:       audit,
	}
}

func (s *userService) Create(ctx context.Context, actor domain.Actor, u *domain.User) error {
	if err := authorize(ctx, s.engine, actor, authz.ManageUsers{}); err != nil {
		return err
	}
	if u.Name == "" {
		return apperr.Validation("user name is required")
	}
	if !domain.ValidRoles[string(u.Role)] {
		return apperr.Validation("unknown role %q", u.Role)
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "user.create", "USER", u.ID, string(u.Role))
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	if err := authorize(ctx, s.engine, actor, authz.ManageUsers{}); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// SetAssignedPortfolio repoints a program manager. Reassignment is allowed
// even with open products under the old portfolio; those stay admin-managed
// until a new manager is appointed.
func (s *userService) SetAssignedPortfolio(ctx context.Context, actor domain.Actor, userID string, portfolioID *string) error {
	if err := authorize(ctx, s.engine, actor, authz.ManageUsers{}); err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Role != domain.RoleProgramManager {
		return apperr.Validation("only program managers carry a portfolio assignment")
	}
	if portfolioID != nil {
		if _, err := s.portfolios.GetByID(ctx, *portfolioID); err != nil {
			return err
		}
	}
	u.AssignedPortfolioID = portfolioID
	u.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}
	detail := ""
	if portfolioID != nil {
		detail = *portfolioID
	}
	s.audit.Record(ctx, actor.UserID, "user.assign_portfolio", "USER", userID, detail)
	return nil
}

func (s *userService) AssignProduct(ctx context.Context, actor domain.Actor, userID, productID string) error {
	if err := authorize(ctx, s.engine, actor, authz.ManageUsers{}); err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Role != domain.RoleProductManager {
		return apperr.Validation("only product managers can be assigned to products")
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	if err := s.assignments.Assign(ctx, userID, productID); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "user.assign_product", "USER", userID, productID)
	return nil
}

func (s *userService) UnassignProduct(ctx context.Context, actor domain.Actor, userID, productID string) error {
	if err := authorize(ctx, s.engine, actor, authz.ManageUsers{}); err != nil {
		return err
	}
	if err := s.assignments.Unassign(ctx, userID, productID); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.UserID, "user.unassign_product", "USER", userID, productID)
	return nil
}
