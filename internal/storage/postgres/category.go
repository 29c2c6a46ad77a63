package postgres

import (
	"context"
	"fmt"

	"github.com/olehkozachenko/budget-api/internal/domain/models"
	"github.com/olehkozachenko/budget-api/internal/storage"
)

const categoryColumns = "id, user_id, name, category_type, created"

func (s *Storage) CreateCategory(ctx context.Context, userID int, name, categoryType string) (*models.Category, error) {
	const op = "storage.postgres.CreateCategory"

	category := models.Category{UserID: userID, Name: name, CategoryType: categoryType}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO categories (user_id, name, category_type)
		 VALUES ($1, $2, $3)
		 RETURNING id, created`,
		userID, name, categoryType,
	).Scan(&category.ID, &category.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &category, nil
}

func (s *Storage) ListCategories(ctx context.Context, userID int) ([]models.Category, error) {
	const op = "storage.postgres.ListCategories"

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM categories WHERE user_id = $1 ORDER BY created DESC, id DESC`, categoryColumns),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CategoryType, &c.Created); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return categories, nil
}

func (s *Storage) CategoryByID(ctx context.Context, userID, id int) (*models.Category, error) {
	const op = "storage.postgres.CategoryByID"

	var c models.Category

	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM categories WHERE user_id = $1 AND id = $2`, categoryColumns),
		userID, id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.CategoryType, &c.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &c, nil
}

func (s *Storage) UpdateCategory(ctx context.Context, userID, id int, name, categoryType string) (*models.Category, error) {
	const op = "storage.postgres.UpdateCategory"

	var c models.Category

	err := s.db.QueryRowContext(ctx,
		`UPDATE categories
		 SET name = $1, category_type = $2
		 WHERE user_id = $3 AND id = $4
		 RETURNING id, user_id, name, category_type, created`,
		name, categoryType, userID, id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.CategoryType, &c.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &c, nil
}

func (s *Storage) DeleteCategory(ctx context.Context, userID, id int) error {
	const op = "storage.postgres.DeleteCategory"

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translate(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
