package domain

import (
	"strings"
	"time"
)

// ClothesStatus is the reservation state of an item. The empty string means available.
type ClothesStatus string

const (
	StatusAvailable ClothesStatus = ""
	StatusReserved  ClothesStatus = "reserved"
)

// Valid reports whether s is one of the known statuses.
func (s ClothesStatus) Valid() bool {
	return s == StatusAvailable || s == StatusReserved
}

const maxClothesTypeLen = 120

// Clothes is a clothing item in the catalog.
type Clothes struct {
	ID         int64         `json:"id"`
	Type       string        `json:"type"`
	Size       float64       `json:"size"`
	Registered time.Time     `json:"registered"`
	Status     ClothesStatus `json:"status"`
}

// Reserved reports whether the item is held by a reservation.
func (c *Clothes) Reserved() bool {
	return c.Status == StatusReserved
}

// ClothesPatch carries a partial update. Nil fields are left unchanged.
type ClothesPatch struct {
	Type   *string
	Size   *float64
	Status *ClothesStatus
}

// Empty reports whether the patch changes nothing.
func (p ClothesPatch) Empty() bool {
	return p.Type == nil && p.Size == nil && p.Status == nil
}

// ValidateClothes checks the fields required on creation.
func ValidateClothes(clothesType string, size float64) error {
	clothesType = strings.TrimSpace(clothesType)
	if clothesType == "" {
		return ErrInvalidInput.WithDescription("type is required")
	}
	if len(clothesType) > maxClothesTypeLen {
		return ErrInvalidInput.WithDescription("type must be at most %d characters", maxClothesTypeLen)
	}
	if size <= 0 {
		return ErrInvalidInput.WithDescription("size must be greater than 0")
	}
	return nil
}

// Apply validates p and applies it to c, re-stamping the registration time.
func (p ClothesPatch) Apply(c *Clothes, now time.Time) error {
	next := *c
	if p.Type != nil {
		next.Type = strings.TrimSpace(*p.Type)
	}
	if p.Size != nil {
		next.Size = *p.Size
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return ErrInvalidInput.WithDescription("status must be \"\" or %q", StatusReserved)
		}
		next.Status = *p.Status
	}
	if err := ValidateClothes(next.Type, next.Size); err != nil {
		return err
	}
	next.Registered = now
	*c = next
	return nil
}
