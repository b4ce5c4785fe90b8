package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

// ReservationService is the reservation ledger. Every operation runs in one
// transaction; batch operations additionally hold item locks for their whole run.
type ReservationService struct {
	tx     ports.Transactor
	locker ports.ItemLocker
	logger zerolog.Logger
	now    func() time.Time
}

func NewReservationService(tx ports.Transactor, locker ports.ItemLocker, logger zerolog.Logger) *ReservationService {
	return &ReservationService{tx: tx, locker: locker, logger: logger, now: utcNow}
}

// Reserve holds one available item for the caller. auth0ID is the identity
// claimed in the request body and must match the token subject.
func (s *ReservationService) Reserve(ctx context.Context, caller ports.Caller, clothesID int64, auth0ID string) (*domain.ReservationDetail, error) {
	if err := checkClaimedIdentity(caller, auth0ID); err != nil {
		return nil, err
	}

	var out *domain.ReservationDetail
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		p, err := authorized(ctx, r.Users, caller, domain.ScopePostReservations)
		if err != nil {
			return err
		}
		c, res, err := s.reserveOne(ctx, r, clothesID, p.User.ID)
		if err != nil {
			return err
		}
		out = &domain.ReservationDetail{
			Reservation: *res,
			Clothes:     *c,
			User:        *p.User,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("clothes_id", clothesID).Int64("user_id", out.User.ID).Msg("clothes reserved")
	return out, nil
}

// reserveOne inserts the reservation and flips the status. The unique
// clothes_id constraint and the status compare-and-swap both guard against a
// concurrent reserve of the same item.
func (s *ReservationService) reserveOne(ctx context.Context, r ports.Repositories, clothesID, userID int64) (*domain.Clothes, *domain.Reservation, error) {
	c, err := r.Clothes.Get(ctx, clothesID)
	if err != nil {
		return nil, nil, err
	}
	if c.Reserved() {
		return nil, nil, domain.ErrAlreadyReserved.WithDescription("clothes %d is already reserved", clothesID)
	}

	res := &domain.Reservation{ClothesID: clothesID, UserID: userID}
	if err := r.Reservations.Create(ctx, res); err != nil {
		return nil, nil, err
	}

	at := s.now()
	ok, err := r.Clothes.SetStatus(ctx, clothesID, domain.StatusAvailable, domain.StatusReserved, at)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, domain.ErrAlreadyReserved.WithDescription("clothes %d is already reserved", clothesID)
	}
	c.Status = domain.StatusReserved
	c.Registered = at
	return c, res, nil
}

// Cancel releases the reservation on an item. Plain users may only cancel
// their own; staff and managers may cancel any.
func (s *ReservationService) Cancel(ctx context.Context, caller ports.Caller, clothesID int64) (*domain.ReservationDetail, error) {
	var out *domain.ReservationDetail
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		detail, err := s.lookup(ctx, r, caller, domain.ScopeDeleteSelfReservations, clothesID)
		if err != nil {
			return err
		}
		if err := s.release(ctx, r, detail.Reservation, &detail.Clothes); err != nil {
			return err
		}
		out = detail
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("clothes_id", clothesID).Int64("user_id", out.User.ID).Msg("reservation cancelled")
	return out, nil
}

// Get returns the reservation on an item under the same rules as Cancel.
func (s *ReservationService) Get(ctx context.Context, caller ports.Caller, clothesID int64) (*domain.ReservationDetail, error) {
	var out *domain.ReservationDetail
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		out, err = s.lookup(ctx, r, caller, domain.ScopeGetSelfReservations, clothesID)
		return err
	})
	return out, err
}

// lookup resolves the single reservation on clothesID and checks ownership.
func (s *ReservationService) lookup(ctx context.Context, r ports.Repositories, caller ports.Caller, scope domain.Scope, clothesID int64) (*domain.ReservationDetail, error) {
	p, err := authorized(ctx, r.Users, caller, scope)
	if err != nil {
		return nil, err
	}
	c, err := r.Clothes.Get(ctx, clothesID)
	if err != nil {
		return nil, err
	}
	held, err := r.Reservations.FindByClothes(ctx, clothesID)
	if err != nil {
		return nil, err
	}
	switch {
	case len(held) == 0:
		return nil, domain.ErrReservationNotFound.WithDescription("clothes %d is not reserved", clothesID)
	case len(held) > 1:
		s.logger.Error().Int64("clothes_id", clothesID).Int("count", len(held)).Msg("reservation multiplicity violated")
		return nil, domain.ErrMultipleReservations.WithDescription("clothes %d has %d reservations", clothesID, len(held))
	}
	res := held[0]
	if err := domain.AuthorizeOwner(p, res.UserID); err != nil {
		return nil, err
	}
	owner, err := r.Users.Get(ctx, res.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.ReservationDetail{Reservation: res, Clothes: *c, User: *owner}, nil
}

// release deletes a reservation and makes its item available again.
func (s *ReservationService) release(ctx context.Context, r ports.Repositories, res domain.Reservation, c *domain.Clothes) error {
	if err := r.Reservations.Delete(ctx, res.ID); err != nil {
		return err
	}
	at := s.now()
	ok, err := r.Clothes.SetStatus(ctx, res.ClothesID, domain.StatusReserved, domain.StatusAvailable, at)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrStatusIncoherent.WithDescription("clothes %d is held but not marked reserved", res.ClothesID)
	}
	c.Status = domain.StatusAvailable
	c.Registered = at
	return nil
}

// ListForUser returns every item held by userID.
func (s *ReservationService) ListForUser(ctx context.Context, caller ports.Caller, userID int64) (*ports.UserReservations, error) {
	var out *ports.UserReservations
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		p, err := authorized(ctx, r.Users, caller, domain.ScopeGetSelfReservations)
		if err != nil {
			return err
		}
		if err := domain.AuthorizeOwner(p, userID); err != nil {
			return err
		}
		u, err := r.Users.Get(ctx, userID)
		if err != nil {
			return err
		}
		held, err := r.Reservations.FindByUser(ctx, userID)
		if err != nil {
			return err
		}
		out = &ports.UserReservations{User: *u, Clothes: make([]domain.Clothes, 0, len(held))}
		for _, res := range held {
			c, err := r.Clothes.Get(ctx, res.ClothesID)
			if err != nil {
				return fmt.Errorf("reservation %d: %w", res.ID, err)
			}
			out.Clothes = append(out.Clothes, *c)
		}
		return nil
	})
	return out, err
}

// BulkReserve reserves every listed item for userID or none of them. The
// whole batch is validated before the first write.
func (s *ReservationService) BulkReserve(ctx context.Context, caller ports.Caller, userID int64, auth0ID string, clothesIDs []int64) (*ports.UserReservations, error) {
	if err := checkClaimedIdentity(caller, auth0ID); err != nil {
		return nil, err
	}
	ids, err := normalizeIDs(clothesIDs)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, ids)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out *ports.UserReservations
	err = s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		p, err := authorized(ctx, r.Users, caller, domain.ScopePostReservations)
		if err != nil {
			return err
		}
		if p.User.ID != userID {
			return domain.ErrInvalidClaims.WithDescription("reservations can only be made for yourself")
		}

		var missing, taken []int64
		for _, id := range ids {
			c, err := r.Clothes.Get(ctx, id)
			if errors.Is(err, domain.ErrClothesNotFound) {
				missing = append(missing, id)
				continue
			}
			if err != nil {
				return err
			}
			if c.Reserved() {
				taken = append(taken, id)
			}
		}
		if len(missing) > 0 {
			return domain.ErrClothesNotFound.WithDescription("clothes not found: %v; already reserved: %v", missing, taken)
		}
		if len(taken) > 0 {
			return domain.ErrAlreadyReserved.WithDescription("clothes already reserved: %v", taken)
		}

		out = &ports.UserReservations{User: *p.User, Clothes: make([]domain.Clothes, 0, len(ids))}
		for _, id := range ids {
			c, _, err := s.reserveOne(ctx, r, id, p.User.ID)
			if err != nil {
				return err
			}
			out.Clothes = append(out.Clothes, *c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", userID).Ints64("clothes_ids", ids).Msg("clothes reserved in bulk")
	return out, nil
}

// BulkCancel releases every reservation held by userID atomically.
func (s *ReservationService) BulkCancel(ctx context.Context, caller ports.Caller, userID int64) (*ports.UserReservations, error) {
	// Learn which items to lock; the batch transaction re-reads everything.
	var ids []int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		held, err := s.heldBy(ctx, r, caller, userID)
		if err != nil {
			return err
		}
		for _, res := range held {
			ids = append(ids, res.ClothesID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)

	unlock, err := s.locker.Lock(ctx, ids)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out *ports.UserReservations
	err = s.tx.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		held, err := s.heldBy(ctx, r, caller, userID)
		if err != nil {
			return err
		}
		u, err := r.Users.Get(ctx, userID)
		if err != nil {
			return err
		}

		items := make([]*domain.Clothes, len(held))
		for i, res := range held {
			c, err := r.Clothes.Get(ctx, res.ClothesID)
			if err != nil {
				return fmt.Errorf("reservation %d: %w", res.ID, err)
			}
			if !c.Reserved() {
				return domain.ErrStatusIncoherent.WithDescription("clothes %d is held but not marked reserved", c.ID)
			}
			items[i] = c
		}

		out = &ports.UserReservations{User: *u, Clothes: make([]domain.Clothes, 0, len(held))}
		for i, res := range held {
			if err := s.release(ctx, r, res, items[i]); err != nil {
				return err
			}
			out.Clothes = append(out.Clothes, *items[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", userID).Int("count", len(out.Clothes)).Msg("reservations cancelled in bulk")
	return out, nil
}

// heldBy authorizes the caller against userID and returns the user's reservations.
func (s *ReservationService) heldBy(ctx context.Context, r ports.Repositories, caller ports.Caller, userID int64) ([]domain.Reservation, error) {
	p, err := authorized(ctx, r.Users, caller, domain.ScopeDeleteSelfReservations)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeOwner(p, userID); err != nil {
		return nil, err
	}
	if _, err := r.Users.Get(ctx, userID); err != nil {
		return nil, err
	}
	held, err := r.Reservations.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(held) == 0 {
		return nil, domain.ErrReservationNotFound.WithDescription("user %d holds no reservations", userID)
	}
	return held, nil
}

func checkClaimedIdentity(caller ports.Caller, auth0ID string) error {
	if auth0ID == "" {
		return domain.ErrInvalidInput.WithDescription("auth0_id is required")
	}
	if auth0ID != caller.Subject {
		return domain.ErrInvalidClaims.WithDescription("auth0_id does not match the token subject")
	}
	return nil
}

// normalizeIDs rejects empty, non-positive and duplicate ids and returns them sorted.
func normalizeIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, domain.ErrInvalidInput.WithDescription("reservations must list at least one clothes id")
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	for i, id := range out {
		if id <= 0 {
			return nil, domain.ErrInvalidInput.WithDescription("invalid clothes id %d", id)
		}
		if i > 0 && out[i-1] == id {
			return nil, domain.ErrInvalidInput.WithDescription("clothes id %d listed twice", id)
		}
	}
	return out, nil
}
