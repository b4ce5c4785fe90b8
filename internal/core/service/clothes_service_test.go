package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

func TestCreateClothes_AsStaff(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "auth0|staff", domain.RoleStaff)

	got, err := f.clothes.Create(context.Background(), as("auth0|staff"), ports.CreateClothesInput{Type: "shirt", Size: 100})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := &domain.Clothes{ID: got.ID, Type: "shirt", Size: 100, Registered: fixedNow, Status: domain.StatusAvailable}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("created clothes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, f.getClothes(t, got.ID)); diff != "" {
		t.Errorf("stored clothes mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateClothes_Rejections(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "auth0|staff", domain.RoleStaff)
	f.seedUser(t, "auth0|user", domain.RoleUser)

	tests := []struct {
		name   string
		caller string
		in     ports.CreateClothesInput
		want   error
	}{
		{"missing type", "auth0|staff", ports.CreateClothesInput{Size: 100}, domain.ErrInvalidInput},
		{"zero size", "auth0|staff", ports.CreateClothesInput{Type: "shirt"}, domain.ErrInvalidInput},
		{"plain user", "auth0|user", ports.CreateClothesInput{Type: "shirt", Size: 100}, domain.ErrUnauthorized},
		{"unregistered", "auth0|ghost", ports.CreateClothesInput{Type: "shirt", Size: 100}, domain.ErrInvalidClaims},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.clothes.Create(context.Background(), as(tt.caller), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestListClothes_NeedsNoRole(t *testing.T) {
	f := newFixture(t)
	f.seedClothes(t, "shirt", 100)
	f.seedClothes(t, "coat", 120)

	got, err := f.clothes.List(context.Background(), as("auth0|ghost"))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].Type != "shirt" || got[1].Type != "coat" {
		t.Errorf("unexpected list %+v", got)
	}
}

func TestUpdateClothes(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "auth0|staff", domain.RoleStaff)
	c := f.seedClothes(t, "shirt", 100)

	size := 110.0
	got, err := f.clothes.Update(context.Background(), as("auth0|staff"), c.ID, domain.ClothesPatch{Size: &size})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Size != 110 || got.Type != "shirt" || !got.Registered.Equal(fixedNow) {
		t.Errorf("unexpected update result %+v", got)
	}
}

func TestUpdateClothes_StatusMustFollowLedger(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "auth0|staff", domain.RoleStaff)
	c := f.seedClothes(t, "shirt", 100)

	reserved := domain.StatusReserved
	_, err := f.clothes.Update(context.Background(), as("auth0|staff"), c.ID, domain.ClothesPatch{Status: &reserved})
	if !errors.Is(err, domain.ErrStatusIncoherent) {
		t.Fatalf("expected ErrStatusIncoherent, got %v", err)
	}
	if f.getClothes(t, c.ID).Reserved() {
		t.Error("status must be unchanged after a rejected update")
	}

	if _, err := f.clothes.Update(context.Background(), as("auth0|staff"), c.ID, domain.ClothesPatch{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty patch, got %v", err)
	}
}

func TestDeleteClothes(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "auth0|staff", domain.RoleStaff)
	f.seedUser(t, "auth0|alice", domain.RoleUser)
	free := f.seedClothes(t, "shirt", 100)
	held := f.seedClothes(t, "coat", 120)
	ctx := context.Background()

	if _, err := f.reservations.Reserve(ctx, as("auth0|alice"), held.ID, "auth0|alice"); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	if err := f.clothes.Delete(ctx, as("auth0|staff"), held.ID); !errors.Is(err, domain.ErrClothesReserved) {
		t.Fatalf("expected ErrClothesReserved, got %v", err)
	}
	if err := f.clothes.Delete(ctx, as("auth0|staff"), free.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.clothes.Delete(ctx, as("auth0|staff"), free.ID); !errors.Is(err, domain.ErrClothesNotFound) {
		t.Fatalf("expected ErrClothesNotFound, got %v", err)
	}
}
