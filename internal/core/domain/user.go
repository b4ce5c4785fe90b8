package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Role is the application role of a user, sourced from storage, never from the token.
type Role string

const (
	RoleUser    Role = "user"
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
)

// roleRank orders the hierarchy; each role includes the rights of the ones below.
// Unknown roles rank 0 and fail closed.
var roleRank = map[Role]int{
	RoleUser:    1,
	RoleStaff:   2,
	RoleManager: 3,
}

// ParseRole converts s into a Role. The empty string defaults to RoleUser.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleUser, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidInput.WithDescription("role must be one of: user, staff, manager")
	}
	return r, nil
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r meets or exceeds minimum.
func (r Role) AtLeast(minimum Role) bool {
	have, want := roleRank[r], roleRank[minimum]
	return have > 0 && want > 0 && have >= want
}

const maxAddressLen = 500

// User is a registered member of the exchange.
type User struct {
	ID      int64  `json:"id"`
	Auth0ID string `json:"auth0_id"`
	Email   string `json:"e_mail"`
	Address string `json:"address"`
	Role    Role   `json:"role"`
}

// UserPatch carries a partial user update. Nil fields are left unchanged.
type UserPatch struct {
	Auth0ID *string
	Email   *string
	Address *string
	Role    *Role
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Auth0ID == nil && p.Email == nil && p.Address == nil && p.Role == nil
}

var validate = validator.New()

// ValidateUser checks a user record before it is written.
func ValidateUser(u *User) error {
	if strings.TrimSpace(u.Auth0ID) == "" {
		return ErrInvalidInput.WithDescription("auth0_id is required")
	}
	if err := validate.Var(u.Email, "required,email,max=120"); err != nil {
		return ErrInvalidInput.WithDescription("e_mail must be a valid email")
	}
	if len(u.Address) > maxAddressLen {
		return ErrInvalidInput.WithDescription("address must be at most %d characters", maxAddressLen)
	}
	if !u.Role.Valid() {
		return ErrInvalidInput.WithDescription("role must be one of: user, staff, manager")
	}
	return nil
}

// Apply applies p to u and validates the result.
func (p UserPatch) Apply(u *User) error {
	next := *u
	if p.Auth0ID != nil {
		next.Auth0ID = strings.TrimSpace(*p.Auth0ID)
	}
	if p.Email != nil {
		next.Email = strings.TrimSpace(*p.Email)
	}
	if p.Address != nil {
		next.Address = *p.Address
	}
	if p.Role != nil {
		next.Role = *p.Role
	}
	if err := ValidateUser(&next); err != nil {
		return err
	}
	*u = next
	return nil
}
