package domain

// Scope is a named permission gating one operation class.
type Scope string

const (
	ScopeGetClothes             Scope = "get:clothes"
	ScopePostClothes            Scope = "post:clothes"
	ScopePatchClothes           Scope = "patch:clothes"
	ScopeDeleteClothes          Scope = "delete:clothes"
	ScopeGetReservations        Scope = "get:reservations"
	ScopeGetSelfReservations    Scope = "get:self_reservations"
	ScopePostReservations       Scope = "post:reservations"
	ScopeDeleteReservations     Scope = "delete:reservations"
	ScopeDeleteSelfReservations Scope = "delete:self_reservations"
	ScopeGetUsers               Scope = "get:users"
	ScopePostUsers              Scope = "post:users"
	ScopePatchUsers             Scope = "patch:users"
	ScopeDeleteUsers            Scope = "delete:users"
)

// scopeMinimum maps every scope to the lowest role that carries it.
var scopeMinimum = map[Scope]Role{
	ScopeGetClothes:             RoleUser,
	ScopeGetSelfReservations:    RoleUser,
	ScopePostReservations:       RoleUser,
	ScopeDeleteSelfReservations: RoleUser,

	ScopePostClothes:        RoleStaff,
	ScopePatchClothes:       RoleStaff,
	ScopeDeleteClothes:      RoleStaff,
	ScopeGetReservations:    RoleStaff,
	ScopeDeleteReservations: RoleStaff,
	ScopeGetUsers:           RoleStaff,

	ScopePostUsers:   RoleManager,
	ScopePatchUsers:  RoleManager,
	ScopeDeleteUsers: RoleManager,
}

// Scopes returns every known scope.
func Scopes() []Scope {
	out := make([]Scope, 0, len(scopeMinimum))
	for s := range scopeMinimum {
		out = append(out, s)
	}
	return out
}

// HasScope reports whether r carries s. Unknown scopes are never granted.
func (r Role) HasScope(s Scope) bool {
	minimum, ok := scopeMinimum[s]
	if !ok {
		return false
	}
	return r.AtLeast(minimum)
}

// BypassesOwnership reports whether r may act on resources owned by others.
func (r Role) BypassesOwnership() bool {
	return r.AtLeast(RoleStaff)
}

// Principal is an authenticated caller. User is nil when the token subject has
// no user record; such a caller holds no application role.
type Principal struct {
	Subject string
	User    *User
}

// Registered reports whether the caller resolved to a user record.
func (p *Principal) Registered() bool {
	return p != nil && p.User != nil
}

// Authorize is the coarse check: does the caller's role carry scope?
func Authorize(p *Principal, scope Scope) error {
	if !p.Registered() {
		return ErrInvalidClaims.WithDescription("no user is registered for this identity")
	}
	if !p.User.Role.HasScope(scope) {
		return ErrUnauthorized.WithDescription("role %q lacks %s", p.User.Role, scope)
	}
	return nil
}

// AuthorizeOwner is the fine check: plain users may only touch what they own.
func AuthorizeOwner(p *Principal, ownerID int64) error {
	if !p.Registered() {
		return ErrInvalidClaims.WithDescription("no user is registered for this identity")
	}
	if p.User.Role.BypassesOwnership() || p.User.ID == ownerID {
		return nil
	}
	return ErrInvalidClaims.WithDescription("resource belongs to another user")
}
