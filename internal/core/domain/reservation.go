package domain

// Reservation links exactly one clothes item to the user holding it.
type Reservation struct {
	ID        int64 `json:"id"`
	ClothesID int64 `json:"clothes_id"`
	UserID    int64 `json:"user_id"`
}

// ReservationDetail is a reservation joined with its item and owner.
type ReservationDetail struct {
	Reservation Reservation
	Clothes     Clothes
	User        User
}
