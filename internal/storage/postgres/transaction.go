package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/olehkozachenko/budget-api/internal/domain/models"
	"github.com/olehkozachenko/budget-api/internal/storage"
)

// Transactions carry no owner column; ownership is resolved through the
// referenced budget on every query.

func (s *Storage) CreateTransaction(ctx context.Context, budgetID, categoryID int, amount decimal.Decimal, notes string) (*models.Transaction, error) {
	const op = "storage.postgres.CreateTransaction"

	tx := models.Transaction{
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Amount:     amount,
		Notes:      notes,
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO transactions (budget_id, category_id, amount, notes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created`,
		budgetID, categoryID, amount, notes,
	).Scan(&tx.ID, &tx.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &tx, nil
}

func (s *Storage) ListTransactions(ctx context.Context, userID int) ([]models.Transaction, error) {
	const op = "storage.postgres.ListTransactions"

	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.budget_id, t.category_id, t.amount, t.notes, t.created
		 FROM transactions t
		 JOIN budgets b ON b.id = t.budget_id
		 WHERE b.user_id = $1
		 ORDER BY t.created DESC, t.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.BudgetID, &t.CategoryID, &t.Amount, &t.Notes, &t.Created); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return transactions, nil
}

func (s *Storage) TransactionByID(ctx context.Context, userID, id int) (*models.Transaction, error) {
	const op = "storage.postgres.TransactionByID"

	var t models.Transaction

	err := s.db.QueryRowContext(ctx,
		`SELECT t.id, t.budget_id, t.category_id, t.amount, t.notes, t.created
		 FROM transactions t
		 JOIN budgets b ON b.id = t.budget_id
		 WHERE b.user_id = $1 AND t.id = $2`,
		userID, id,
	).Scan(&t.ID, &t.BudgetID, &t.CategoryID, &t.Amount, &t.Notes, &t.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &t, nil
}

func (s *Storage) UpdateTransaction(ctx context.Context, userID, id, categoryID int, amount decimal.Decimal, notes string) (*models.Transaction, error) {
	const op = "storage.postgres.UpdateTransaction"

	var t models.Transaction

	err := s.db.QueryRowContext(ctx,
		`UPDATE transactions t
		 SET category_id = $1, amount = $2, notes = $3
		 FROM budgets b
		 WHERE b.id = t.budget_id AND b.user_id = $4 AND t.id = $5
		 RETURNING t.id, t.budget_id, t.category_id, t.amount, t.notes, t.created`,
		categoryID, amount, notes, userID, id,
	).Scan(&t.ID, &t.BudgetID, &t.CategoryID, &t.Amount, &t.Notes, &t.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &t, nil
}

func (s *Storage) DeleteTransaction(ctx context.Context, userID, id int) error {
	const op = "storage.postgres.DeleteTransaction"

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions t
		 USING budgets b
		 WHERE b.id = t.budget_id AND b.user_id = $1 AND t.id = $2`,
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
