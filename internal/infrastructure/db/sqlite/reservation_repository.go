package sqlite

import (
	"context"
	"fmt"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

type reservationRepository struct {
	q queryer
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO reserves (clothes_id, user_id) VALUES (?, ?)`,
		res.ClothesID, res.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyReserved.WithDescription("clothes %d is already reserved", res.ClothesID)
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUnprocessable.WithDescription("reservation references a missing clothes or user")
		}
		return fmt.Errorf("creating reservation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting reservation id: %w", err)
	}
	res.ID = id
	return nil
}

func (r *reservationRepository) FindByClothes(ctx context.Context, clothesID int64) ([]domain.Reservation, error) {
	return r.find(ctx, `clothes_id = ?`, clothesID)
}

func (r *reservationRepository) FindByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	return r.find(ctx, `user_id = ?`, userID)
}

func (r *reservationRepository) find(ctx context.Context, where string, arg int64) ([]domain.Reservation, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, clothes_id, user_id FROM reserves WHERE `+where+` ORDER BY id`, arg,
	)
	if err != nil {
		return nil, fmt.Errorf("finding reservations: %w", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.ClothesID, &res.UserID); err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM reserves WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting reservation: %w", err)
	}
	return requireRow(result, domain.ErrReservationNotFound.WithDescription("reservation %d not found", id))
}
