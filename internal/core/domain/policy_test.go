package domain

import (
	"errors"
	"testing"
)

var rolesAscending = []Role{RoleUser, RoleStaff, RoleManager}

func TestRoleMonotonicity(t *testing.T) {
	for _, s := range Scopes() {
		for i := 1; i < len(rolesAscending); i++ {
			lower, higher := rolesAscending[i-1], rolesAscending[i]
			if lower.HasScope(s) && !higher.HasScope(s) {
				t.Errorf("%s has %s but %s does not", lower, s, higher)
			}
		}
	}
}

func TestHasScopeFailsClosed(t *testing.T) {
	if Role("admin").HasScope(ScopeGetClothes) {
		t.Error("unknown role must not be granted anything")
	}
	if RoleManager.HasScope(Scope("get:everything")) {
		t.Error("unknown scope must not be granted")
	}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name  string
		p     *Principal
		scope Scope
		want  error
	}{
		{"unregistered", &Principal{Subject: "auth0|x"}, ScopeGetClothes, ErrInvalidClaims},
		{"nil principal", nil, ScopeGetClothes, ErrInvalidClaims},
		{"user reserves", &Principal{User: &User{Role: RoleUser}}, ScopePostReservations, nil},
		{"user creates clothes", &Principal{User: &User{Role: RoleUser}}, ScopePostClothes, ErrUnauthorized},
		{"staff creates clothes", &Principal{User: &User{Role: RoleStaff}}, ScopePostClothes, nil},
		{"staff creates users", &Principal{User: &User{Role: RoleStaff}}, ScopePostUsers, ErrUnauthorized},
		{"manager creates users", &Principal{User: &User{Role: RoleManager}}, ScopePostUsers, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.p, tt.scope)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthorizeOwner(t *testing.T) {
	user := &Principal{User: &User{ID: 1, Role: RoleUser}}
	staff := &Principal{User: &User{ID: 2, Role: RoleStaff}}

	if err := AuthorizeOwner(user, 1); err != nil {
		t.Errorf("owner rejected: %v", err)
	}
	if err := AuthorizeOwner(user, 3); !errors.Is(err, ErrInvalidClaims) {
		t.Errorf("expected ErrInvalidClaims for another user's resource, got %v", err)
	}
	if err := AuthorizeOwner(staff, 3); err != nil {
		t.Errorf("staff should bypass ownership: %v", err)
	}
	if err := AuthorizeOwner(&Principal{}, 1); !errors.Is(err, ErrInvalidClaims) {
		t.Errorf("expected ErrInvalidClaims for unregistered caller, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	tests := map[string]Role{"": RoleUser, "staff": RoleStaff, " Manager ": RoleManager}
	for in, want := range tests {
		got, err := ParseRole(in)
		if err != nil || got != want {
			t.Errorf("ParseRole(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseRole("admin"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
