package postgres

import (
	"context"
	"fmt"

	"github.com/olehkozachenko/budget-api/internal/domain/models"
)

func (s *Storage) SaveUser(ctx context.Context, email string, passHash []byte) (*models.User, error) {
	const op = "storage.postgres.SaveUser"

	user := models.User{Email: email, PasswordHash: string(passHash)}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, is_active, is_staff, created`,
		email, passHash,
	).Scan(&user.ID, &user.IsActive, &user.IsStaff, &user.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &user, nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.UserByEmail"

	var user models.User

	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, is_active, is_staff, created
		 FROM users
		 WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsActive, &user.IsStaff, &user.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &user, nil
}

func (s *Storage) UserByID(ctx context.Context, id int) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	var user models.User

	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, is_active, is_staff, created
		 FROM users
		 WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsActive, &user.IsStaff, &user.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &user, nil
}

func (s *Storage) UpdateUser(ctx context.Context, id int, email string, passHash []byte) (*models.User, error) {
	const op = "storage.postgres.UpdateUser"

	var user models.User
	user.PasswordHash = string(passHash)

	err := s.db.QueryRowContext(ctx,
		`UPDATE users
		 SET email = $1, password_hash = $2
		 WHERE id = $3
		 RETURNING id, email, is_active, is_staff, created`,
		email, passHash, id,
	).Scan(&user.ID, &user.Email, &user.IsActive, &user.IsStaff, &user.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &user, nil
}
