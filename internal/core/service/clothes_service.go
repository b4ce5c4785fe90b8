package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

// ClothesService implements the clothing catalog.
type ClothesService struct {
	tx     ports.Transactor
	logger zerolog.Logger
	now    func() time.Time
}

func NewClothesService(tx ports.Transactor, logger zerolog.Logger) *ClothesService {
	return &ClothesService{tx: tx, logger: logger, now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

// List returns every item. The route's token scope is the only gate; no
// application role is needed to browse.
func (s *ClothesService) List(ctx context.Context, _ ports.Caller) ([]domain.Clothes, error) {
	var out []domain.Clothes
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		out, err = r.Clothes.List(ctx)
		return err
	})
	return out, err
}

func (s *ClothesService) Get(ctx context.Context, _ ports.Caller, id int64) (*domain.Clothes, error) {
	var out *domain.Clothes
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		out, err = r.Clothes.Get(ctx, id)
		return err
	})
	return out, err
}

// Create adds a new available item.
func (s *ClothesService) Create(ctx context.Context, caller ports.Caller, in ports.CreateClothesInput) (*domain.Clothes, error) {
	if err := domain.ValidateClothes(in.Type, in.Size); err != nil {
		return nil, err
	}

	c := &domain.Clothes{
		Type:   strings.TrimSpace(in.Type),
		Size:   in.Size,
		Status: domain.StatusAvailable,
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		if _, err := authorized(ctx, r.Users, caller, domain.ScopePostClothes); err != nil {
			return err
		}
		c.Registered = s.now()
		if err := r.Clothes.Create(ctx, c); err != nil {
			s.logger.Error().Err(err).Msg("failed to create clothes")
			return domain.ErrUnprocessable.WithDescription("clothes could not be stored")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("clothes_id", c.ID).Str("type", c.Type).Msg("clothes created")
	return c, nil
}

// Update applies a partial update. A status change must agree with the
// reservation ledger; reserving goes through reservations only.
func (s *ClothesService) Update(ctx context.Context, caller ports.Caller, id int64, patch domain.ClothesPatch) (*domain.Clothes, error) {
	if patch.Empty() {
		return nil, domain.ErrInvalidInput.WithDescription("at least one of type, size, status is required")
	}

	var out *domain.Clothes
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		if _, err := authorized(ctx, r.Users, caller, domain.ScopePatchClothes); err != nil {
			return err
		}
		c, err := r.Clothes.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := patch.Apply(c, s.now()); err != nil {
			return err
		}
		if patch.Status != nil {
			held, err := r.Reservations.FindByClothes(ctx, id)
			if err != nil {
				return err
			}
			if c.Reserved() != (len(held) > 0) {
				return domain.ErrStatusIncoherent.WithDescription("clothes %d has %d reservation(s)", id, len(held))
			}
		}
		if err := r.Clothes.Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("clothes_id", id).Msg("clothes updated")
	return out, nil
}

// Delete removes an item. Reserved items are rejected rather than cascaded.
func (s *ClothesService) Delete(ctx context.Context, caller ports.Caller, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		if _, err := authorized(ctx, r.Users, caller, domain.ScopeDeleteClothes); err != nil {
			return err
		}
		c, err := r.Clothes.Get(ctx, id)
		if err != nil {
			return err
		}
		held, err := r.Reservations.FindByClothes(ctx, id)
		if err != nil {
			return err
		}
		if c.Reserved() || len(held) > 0 {
			return domain.ErrClothesReserved.WithDescription("clothes %d is reserved", id)
		}
		return r.Clothes.Delete(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrClothesNotFound) {
			s.logger.Warn().Err(err).Int64("clothes_id", id).Msg("clothes delete rejected")
		}
		return err
	}

	s.logger.Info().Int64("clothes_id", id).Msg("clothes deleted")
	return nil
}
