package domain

import (
	"errors"
	"testing"
)

func TestValidateUser(t *testing.T) {
	valid := User{Auth0ID: "auth0|a", Email: "a@example.com", Role: RoleUser}
	if err := ValidateUser(&valid); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	tests := map[string]func(u *User){
		"missing auth0_id": func(u *User) { u.Auth0ID = "" },
		"bad email":        func(u *User) { u.Email = "not-an-email" },
		"unknown role":     func(u *User) { u.Role = "admin" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			u := valid
			mutate(&u)
			if err := ValidateUser(&u); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestUserPatchApply(t *testing.T) {
	u := User{ID: 1, Auth0ID: "auth0|a", Email: "a@example.com", Role: RoleUser}
	if err := (UserPatch{Role: ptr(RoleStaff), Address: ptr("1-2-3 Shibuya")}).Apply(&u); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if u.Role != RoleStaff || u.Address != "1-2-3 Shibuya" || u.Email != "a@example.com" {
		t.Errorf("unexpected result %+v", u)
	}

	before := u
	if err := (UserPatch{Email: ptr("nope")}).Apply(&u); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if u != before {
		t.Errorf("rejected patch must leave the user unchanged, got %+v", u)
	}
}
