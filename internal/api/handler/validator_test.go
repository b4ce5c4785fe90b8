package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&createUserRequest{Auth0ID: "auth0|a", Email: "nope", Role: "admin"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected a domain error, got %T", err)
	}
	for _, want := range []string{"e_mail must be a valid email", "role must be one of: user staff manager"} {
		if !strings.Contains(de.Description, want) {
			t.Errorf("description %q lacks %q", de.Description, want)
		}
	}

	if err := v.Validate(&bulkReserveRequest{Auth0ID: "auth0|a", Reservations: []int64{1}}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if err := v.Validate(&bulkReserveRequest{Auth0ID: "auth0|a", Reservations: []int64{}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty reservations: expected ErrInvalidInput, got %v", err)
	}
}
