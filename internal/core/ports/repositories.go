package ports

import (
	"context"
	"time"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

// ClothesRepository persists catalog items. Get returns domain.ErrClothesNotFound
// when the id is unknown.
type ClothesRepository interface {
	List(ctx context.Context) ([]domain.Clothes, error)
	Get(ctx context.Context, id int64) (*domain.Clothes, error)
	Create(ctx context.Context, c *domain.Clothes) error
	Update(ctx context.Context, c *domain.Clothes) error
	Delete(ctx context.Context, id int64) error

	// SetStatus moves an item from one status to another only if its current
	// status is from, re-stamping the registration time with at. It returns
	// false when the item was not in that state.
	SetStatus(ctx context.Context, id int64, from, to domain.ClothesStatus, at time.Time) (bool, error)
}

// UserRepository persists users. Create and Update return domain.ErrUserExists
// on a uniqueness violation.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
}

// ReservationRepository persists reservations. Create must rely on the storage
// uniqueness constraint on clothes_id and return domain.ErrAlreadyReserved when
// it is violated.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	// FindByClothes returns every reservation referencing the item; more than
	// one means the data is corrupt.
	FindByClothes(ctx context.Context, clothesID int64) ([]domain.Reservation, error)
	FindByUser(ctx context.Context, userID int64) ([]domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
}

// Repositories groups the repositories bound to one transaction.
type Repositories struct {
	Clothes      ClothesRepository
	Users        UserRepository
	Reservations ReservationRepository
}

// Transactor runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back on any error or panic; the error from fn is
// returned unchanged. The ctx handed to fn must be used for every repository call.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// ItemLocker serializes batch operations over a set of items. Lock acquires
// every id or none and returns domain.ErrItemsBusy on contention. The returned
// release func must be called on every exit path.
type ItemLocker interface {
	Lock(ctx context.Context, ids []int64) (release func(), err error)
}
