package handler

import "github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"

// errorResponse documents the error envelope written by the central handler.
type errorResponse struct {
	Success     bool   `json:"success"`
	Error       int    `json:"error"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// --- Requests ---

type createClothesRequest struct {
	Type string   `json:"type" validate:"required,max=120"`
	Size *float64 `json:"size" validate:"required,gt=0"`
}

// patchClothesRequest leaves absent keys untouched.
type patchClothesRequest struct {
	Type   *string               `json:"type"`
	Size   *float64              `json:"size"`
	Status *domain.ClothesStatus `json:"status"`
}

type reserveRequest struct {
	Auth0ID string `json:"auth0_id" validate:"required"`
}

type bulkReserveRequest struct {
	Auth0ID      string  `json:"auth0_id"     validate:"required"`
	Reservations []int64 `json:"reservations" validate:"required,min=1"`
}

type createUserRequest struct {
	Auth0ID string `json:"auth0_id" validate:"required"`
	Email   string `json:"e_mail"   validate:"required,email,max=120"`
	Address string `json:"address"  validate:"max=500"`
	Role    string `json:"role"     validate:"omitempty,oneof=user staff manager"`
}

type patchUserRequest struct {
	Auth0ID *string `json:"auth0_id"`
	Email   *string `json:"e_mail"`
	Address *string `json:"address"`
	Role    *string `json:"role"`
}

// --- Responses ---

type clothesListResponse struct {
	Success bool             `json:"success"`
	Total   int              `json:"total"`
	Clothes []domain.Clothes `json:"clothes"`
}

type clothesResponse struct {
	Success bool           `json:"success"`
	Clothes domain.Clothes `json:"clothes"`
}

type deletedResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

type reservationResponse struct {
	Success bool           `json:"success"`
	Clothes domain.Clothes `json:"clothes"`
	User    domain.User    `json:"user"`
}

type userListResponse struct {
	Success bool          `json:"success"`
	Total   int           `json:"total"`
	Users   []domain.User `json:"users"`
}

type userResponse struct {
	Success bool        `json:"success"`
	User    domain.User `json:"user"`
}

type userReservationsResponse struct {
	Success bool             `json:"success"`
	User    domain.User      `json:"user"`
	Total   int              `json:"total"`
	Clothes []domain.Clothes `json:"clothes"`
}

type bulkCancelResponse struct {
	Success   bool             `json:"success"`
	User      domain.User      `json:"user"`
	Cancelled []domain.Clothes `json:"cancelled"`
}
