package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

// UserService implements user administration on top of the identity store.
type UserService struct {
	tx     ports.Transactor
	logger zerolog.Logger
}

func NewUserService(tx ports.Transactor, logger zerolog.Logger) *UserService {
	return &UserService{tx: tx, logger: logger}
}

func (s *UserService) List(ctx context.Context, caller ports.Caller) ([]domain.User, error) {
	var out []domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		if _, err := authorized(ctx, r.Users, caller, domain.ScopeGetUsers); err != nil {
			return err
		}
		var err error
		out, err = r.Users.List(ctx)
		return err
	})
	return out, err
}

// Get returns a user record to staff or to the user themself.
func (s *UserService) Get(ctx context.Context, caller ports.Caller, id int64) (*domain.User, error) {
	var out *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		p, err := resolvePrincipal(ctx, r.Users, caller)
		if err != nil {
			return err
		}
		if err := domain.AuthorizeOwner(p, id); err != nil {
			return err
		}
		out, err = r.Users.Get(ctx, id)
		return err
	})
	return out, err
}

// Me returns the caller's own record.
func (s *UserService) Me(ctx context.Context, caller ports.Caller) (*domain.User, error) {
	var out *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		p, err := resolvePrincipal(ctx, r.Users, caller)
		if err != nil {
			return err
		}
		if !p.Registered() {
			return domain.ErrInvalidClaims.WithDescription("no user is registered for this identity")
		}
		out = p.User
		return nil
	})
	return out, err
}

func (s *UserService) Create(ctx context.Context, caller ports.Caller, in ports.CreateUserInput) (*domain.User, error) {
	u := &domain.User{
		Auth0ID: strings.TrimSpace(in.Auth0ID),
		Email:   strings.TrimSpace(in.Email),
		Address: in.Address,
		Role:    in.Role,
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if err := domain.ValidateUser(u); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		if _, err := authorized(ctx, r.Users, caller, domain.ScopePostUsers); err != nil {
			return err
		}
		return r.Users.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", u.ID).Str("role", string(u.Role)).Msg("user created")
	return u, nil
}

func (s *UserService) Update(ctx context.Context, caller ports.Caller, id int64, patch domain.UserPatch) (*domain.User, error) {
	if patch.Empty() {
		return nil, domain.ErrInvalidInput.WithDescription("at least one of auth0_id, e_mail, address, role is required")
	}

	var out *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		if _, err := authorized(ctx, r.Users, caller, domain.ScopePatchUsers); err != nil {
			return err
		}
		u, err := r.Users.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := patch.Apply(u); err != nil {
			return err
		}
		if err := r.Users.Update(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return out, nil
}

// Delete removes a user. Users holding reservations are rejected so no
// reservation is left pointing at a missing user.
func (s *UserService) Delete(ctx context.Context, caller ports.Caller, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		if _, err := authorized(ctx, r.Users, caller, domain.ScopeDeleteUsers); err != nil {
			return err
		}
		if _, err := r.Users.Get(ctx, id); err != nil {
			return err
		}
		held, err := r.Reservations.FindByUser(ctx, id)
		if err != nil {
			return err
		}
		if len(held) > 0 {
			return domain.ErrUserHasReservations.WithDescription("user %d holds %d reservation(s)", id, len(held))
		}
		return r.Users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// Bootstrap creates a user without an authorization check. It exists for the
// command line, to seed the first manager.
func Bootstrap(ctx context.Context, tx ports.Transactor, in ports.CreateUserInput) (*domain.User, error) {
	u := &domain.User{
		Auth0ID: strings.TrimSpace(in.Auth0ID),
		Email:   strings.TrimSpace(in.Email),
		Address: in.Address,
		Role:    in.Role,
	}
	if err := domain.ValidateUser(u); err != nil {
		return nil, err
	}
	err := tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		return r.Users.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}
