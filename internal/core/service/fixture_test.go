package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
	"github.com/TANADADaisuke/kinder-closet-app/internal/infrastructure/db/sqlite"
	"github.com/TANADADaisuke/kinder-closet-app/internal/infrastructure/lock"
)

// fixedNow is the clock every service under test reads.
var fixedNow = time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store        *sqlite.Store
	locker       *lock.Local
	clothes      *ClothesService
	users        *UserService
	reservations *ReservationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := sqlite.NewTestStore(t)
	return newFixtureWith(t, store, store)
}

// newFixtureWith builds services over tx while seeding goes through store.
func newFixtureWith(t *testing.T, store *sqlite.Store, tx ports.Transactor) *fixture {
	t.Helper()
	log := zerolog.Nop()
	locker := lock.NewLocal(50 * time.Millisecond)

	f := &fixture{
		store:        store,
		locker:       locker,
		clothes:      NewClothesService(tx, log),
		users:        NewUserService(tx, log),
		reservations: NewReservationService(tx, locker, log),
	}
	clock := func() time.Time { return fixedNow }
	f.clothes.now = clock
	f.reservations.now = clock
	return f
}

func (f *fixture) seedUser(t *testing.T, auth0ID string, role domain.Role) *domain.User {
	t.Helper()
	u, err := Bootstrap(context.Background(), f.store, ports.CreateUserInput{
		Auth0ID: auth0ID,
		Email:   auth0ID[len("auth0|"):] + "@example.com",
		Role:    role,
	})
	if err != nil {
		t.Fatalf("seeding user %s: %v", auth0ID, err)
	}
	return u
}

func (f *fixture) seedClothes(t *testing.T, clothesType string, size float64) *domain.Clothes {
	t.Helper()
	c := &domain.Clothes{Type: clothesType, Size: size, Registered: fixedNow.Add(-time.Hour)}
	err := f.store.WithinTx(context.Background(), func(ctx context.Context, r ports.Repositories) error {
		return r.Clothes.Create(ctx, c)
	})
	if err != nil {
		t.Fatalf("seeding clothes: %v", err)
	}
	return c
}

func (f *fixture) getClothes(t *testing.T, id int64) *domain.Clothes {
	t.Helper()
	var c *domain.Clothes
	err := f.store.WithinTx(context.Background(), func(ctx context.Context, r ports.Repositories) error {
		var err error
		c, err = r.Clothes.Get(ctx, id)
		return err
	})
	if err != nil {
		t.Fatalf("loading clothes %d: %v", id, err)
	}
	return c
}

func as(auth0ID string) ports.Caller {
	return ports.Caller{Subject: auth0ID}
}

// tamperedTx hands fn repositories rewritten by wrap, for injecting faults
// the schema would otherwise prevent.
type tamperedTx struct {
	inner ports.Transactor
	wrap  func(ports.Repositories) ports.Repositories
}

func (t tamperedTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	return t.inner.WithinTx(ctx, func(ctx context.Context, r ports.Repositories) error {
		return fn(ctx, t.wrap(r))
	})
}
