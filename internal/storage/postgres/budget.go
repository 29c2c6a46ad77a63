package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/olehkozachenko/budget-api/internal/domain/models"
	"github.com/olehkozachenko/budget-api/internal/lib/filters"
	"github.com/olehkozachenko/budget-api/internal/storage"
)

const budgetColumns = "id, user_id, currency, balance, created"

func (s *Storage) CreateBudget(ctx context.Context, userID int, currency string, balance decimal.Decimal) (*models.Budget, error) {
	const op = "storage.postgres.CreateBudget"

	budget := models.Budget{UserID: userID, Currency: currency, Balance: balance}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO budgets (user_id, currency, balance)
		 VALUES ($1, $2, $3)
		 RETURNING id, created`,
		userID, currency, balance,
	).Scan(&budget.ID, &budget.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &budget, nil
}

func (s *Storage) ListBudgets(ctx context.Context, userID int, f filters.Budget) ([]models.Budget, error) {
	const op = "storage.postgres.ListBudgets"

	where, args := budgetFilterClauses(userID, f)
	query := fmt.Sprintf(
		`SELECT %s FROM budgets WHERE %s ORDER BY created DESC, id DESC`,
		budgetColumns, where,
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Currency, &b.Balance, &b.Created); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return budgets, nil
}

// budgetFilterClauses builds the WHERE clause for a budget list query. The
// ownership clause always comes first; filter predicates are appended with
// AND in a fixed order so the generated SQL is deterministic.
func budgetFilterClauses(userID int, f filters.Budget) (string, []interface{}) {
	clauses := []string{"user_id = $1"}
	args := []interface{}{userID}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(cond, len(args)))
	}

	if f.MinBalance != nil {
		add("balance >= $%d", *f.MinBalance)
	}
	if f.MaxBalance != nil {
		add("balance <= $%d", *f.MaxBalance)
	}
	if f.Balance != nil {
		add("balance = $%d", *f.Balance)
	}
	if len(f.Currencies) > 0 {
		add("upper(currency) = ANY($%d)", pq.Array(f.Currencies))
	}

	return strings.Join(clauses, " AND "), args
}

func (s *Storage) BudgetByID(ctx context.Context, userID, id int) (*models.Budget, error) {
	const op = "storage.postgres.BudgetByID"

	var b models.Budget

	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM budgets WHERE user_id = $1 AND id = $2`, budgetColumns),
		userID, id,
	).Scan(&b.ID, &b.UserID, &b.Currency, &b.Balance, &b.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &b, nil
}

func (s *Storage) UpdateBudget(ctx context.Context, userID, id int, currency string, balance decimal.Decimal) (*models.Budget, error) {
	const op = "storage.postgres.UpdateBudget"

	var b models.Budget

	err := s.db.QueryRowContext(ctx,
		`UPDATE budgets
		 SET currency = $1, balance = $2
		 WHERE user_id = $3 AND id = $4
		 RETURNING id, user_id, currency, balance, created`,
		currency, balance, userID, id,
	).Scan(&b.ID, &b.UserID, &b.Currency, &b.Balance, &b.Created)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return &b, nil
}

func (s *Storage) DeleteBudget(ctx context.Context, userID, id int) error {
	const op = "storage.postgres.DeleteBudget"

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE user_id = $1 AND id = $2`,
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
