package ports

import (
	"context"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

// Caller identifies who is making a request, as proven by the bearer token.
type Caller struct {
	Subject string
}

// CreateClothesInput carries the fields of a new catalog item.
type CreateClothesInput struct {
	Type string
	Size float64
}

// ClothesService is the catalog use-case boundary.
type ClothesService interface {
	List(ctx context.Context, caller Caller) ([]domain.Clothes, error)
	Get(ctx context.Context, caller Caller, id int64) (*domain.Clothes, error)
	Create(ctx context.Context, caller Caller, in CreateClothesInput) (*domain.Clothes, error)
	Update(ctx context.Context, caller Caller, id int64, patch domain.ClothesPatch) (*domain.Clothes, error)
	Delete(ctx context.Context, caller Caller, id int64) error
}

// CreateUserInput carries the fields of a new user.
type CreateUserInput struct {
	Auth0ID string
	Email   string
	Address string
	Role    domain.Role
}

// UserService is the user administration boundary.
type UserService interface {
	List(ctx context.Context, caller Caller) ([]domain.User, error)
	Get(ctx context.Context, caller Caller, id int64) (*domain.User, error)
	Me(ctx context.Context, caller Caller) (*domain.User, error)
	Create(ctx context.Context, caller Caller, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, caller Caller, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, caller Caller, id int64) error
}

// UserReservations is a user together with every item they hold.
type UserReservations struct {
	User    domain.User
	Clothes []domain.Clothes
}

// ReservationService is the reservation ledger boundary.
type ReservationService interface {
	Reserve(ctx context.Context, caller Caller, clothesID int64, auth0ID string) (*domain.ReservationDetail, error)
	Cancel(ctx context.Context, caller Caller, clothesID int64) (*domain.ReservationDetail, error)
	Get(ctx context.Context, caller Caller, clothesID int64) (*domain.ReservationDetail, error)
	ListForUser(ctx context.Context, caller Caller, userID int64) (*UserReservations, error)
	BulkReserve(ctx context.Context, caller Caller, userID int64, auth0ID string, clothesIDs []int64) (*UserReservations, error)
	BulkCancel(ctx context.Context, caller Caller, userID int64) (*UserReservations, error)
}
