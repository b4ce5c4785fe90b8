package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

// resolvePrincipal maps the token subject to a user record inside the current
// transaction. A subject without a record yields a principal with no role.
func resolvePrincipal(ctx context.Context, users ports.UserRepository, caller ports.Caller) (*domain.Principal, error) {
	if caller.Subject == "" {
		return nil, domain.ErrInvalidClaims.WithDescription("token carries no subject")
	}

	p := &domain.Principal{Subject: caller.Subject}
	u, err := users.GetByAuth0ID(ctx, caller.Subject)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return p, nil
	case err != nil:
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	p.User = u
	return p, nil
}

// authorized resolves the caller and runs the coarse scope check.
func authorized(ctx context.Context, users ports.UserRepository, caller ports.Caller, scope domain.Scope) (*domain.Principal, error) {
	p, err := resolvePrincipal(ctx, users, caller)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(p, scope); err != nil {
		return nil, err
	}
	return p, nil
}
