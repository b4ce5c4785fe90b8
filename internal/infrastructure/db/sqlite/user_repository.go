package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

type userRepository struct {
	q queryer
}

const userColumns = `id, auth0_id, e_mail, address, role`

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Auth0ID, &u.Email, &u.Address, &role); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *userRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	return r.getBy(ctx, `id = ?`, id)
}

func (r *userRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	return r.getBy(ctx, `auth0_id = ?`, auth0ID)
}

func (r *userRepository) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound.WithDescription("user %v not found", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO users (auth0_id, e_mail, address, role) VALUES (?, ?, ?, ?)`,
		u.Auth0ID, u.Email, u.Address, string(u.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("creating user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting user id: %w", err)
	}
	u.ID = id
	return nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE users SET auth0_id = ?, e_mail = ?, address = ?, role = ? WHERE id = ?`,
		u.Auth0ID, u.Email, u.Address, string(u.Role), u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("updating user: %w", err)
	}
	return requireRow(result, domain.ErrUserNotFound.WithDescription("user %d not found", u.ID))
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserHasReservations.WithDescription("user %d holds reservations", id)
		}
		return fmt.Errorf("deleting user: %w", err)
	}
	return requireRow(result, domain.ErrUserNotFound.WithDescription("user %d not found", id))
}
