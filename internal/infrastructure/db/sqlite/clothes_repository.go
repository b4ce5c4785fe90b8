package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

type clothesRepository struct {
	q queryer
}

const clothesColumns = `id, type, size, registered_time, status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClothes(row rowScanner) (*domain.Clothes, error) {
	c := &domain.Clothes{}
	var status string
	if err := row.Scan(&c.ID, &c.Type, &c.Size, &c.Registered, &status); err != nil {
		return nil, err
	}
	c.Status = domain.ClothesStatus(status)
	c.Registered = c.Registered.UTC()
	return c, nil
}

func (r *clothesRepository) List(ctx context.Context) ([]domain.Clothes, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+clothesColumns+` FROM clothes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing clothes: %w", err)
	}
	defer rows.Close()

	out := []domain.Clothes{}
	for rows.Next() {
		c, err := scanClothes(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning clothes: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *clothesRepository) Get(ctx context.Context, id int64) (*domain.Clothes, error) {
	c, err := scanClothes(r.q.QueryRowContext(ctx,
		`SELECT `+clothesColumns+` FROM clothes WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrClothesNotFound.WithDescription("clothes %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting clothes: %w", err)
	}
	return c, nil
}

func (r *clothesRepository) Create(ctx context.Context, c *domain.Clothes) error {
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO clothes (type, size, registered_time, status) VALUES (?, ?, ?, ?)`,
		c.Type, c.Size, c.Registered, string(c.Status),
	)
	if err != nil {
		return fmt.Errorf("creating clothes: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting clothes id: %w", err)
	}
	c.ID = id
	return nil
}

func (r *clothesRepository) Update(ctx context.Context, c *domain.Clothes) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE clothes SET type = ?, size = ?, status = ?, registered_time = ? WHERE id = ?`,
		c.Type, c.Size, string(c.Status), c.Registered, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating clothes: %w", err)
	}
	return requireRow(result, domain.ErrClothesNotFound.WithDescription("clothes %d not found", c.ID))
}

func (r *clothesRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM clothes WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrClothesReserved.WithDescription("clothes %d is reserved", id)
		}
		return fmt.Errorf("deleting clothes: %w", err)
	}
	return requireRow(result, domain.ErrClothesNotFound.WithDescription("clothes %d not found", id))
}

func (r *clothesRepository) SetStatus(ctx context.Context, id int64, from, to domain.ClothesStatus, at time.Time) (bool, error) {
	result, err := r.q.ExecContext(ctx,
		`UPDATE clothes SET status = ?, registered_time = ? WHERE id = ? AND status = ?`,
		string(to), at, id, string(from),
	)
	if err != nil {
		return false, fmt.Errorf("setting clothes status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("setting clothes status: %w", err)
	}
	return n == 1, nil
}

// requireRow returns notFound when the statement touched no row.
func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
