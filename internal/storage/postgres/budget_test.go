package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehkozachenko/budget-api/internal/lib/filters"
)

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func TestBudgetFilterClauses(t *testing.T) {
	tests := []struct {
		name     string
		filter   filters.Budget
		want     string
		wantArgs int
	}{
		{
			name:     "no filters",
			filter:   filters.Budget{},
			want:     "user_id = $1",
			wantArgs: 1,
		},
		{
			name:     "exact balance",
			filter:   filters.Budget{Balance: decPtr(t, "200")},
			want:     "user_id = $1 AND balance = $2",
			wantArgs: 2,
		},
		{
			name:     "min only",
			filter:   filters.Budget{MinBalance: decPtr(t, "150")},
			want:     "user_id = $1 AND balance >= $2",
			wantArgs: 2,
		},
		{
			name:     "max only",
			filter:   filters.Budget{MaxBalance: decPtr(t, "250")},
			want:     "user_id = $1 AND balance <= $2",
			wantArgs: 2,
		},
		{
			name: "range",
			filter: filters.Budget{
				MinBalance: decPtr(t, "150"),
				MaxBalance: decPtr(t, "250"),
			},
			want:     "user_id = $1 AND balance >= $2 AND balance <= $3",
			wantArgs: 3,
		},
		{
			name:     "currencies",
			filter:   filters.Budget{Currencies: []string{"USD", "EUR"}},
			want:     "user_id = $1 AND upper(currency) = ANY($2)",
			wantArgs: 2,
		},
		{
			name: "everything",
			filter: filters.Budget{
				Balance:    decPtr(t, "200"),
				MinBalance: decPtr(t, "150"),
				MaxBalance: decPtr(t, "250"),
				Currencies: []string{"UAH"},
			},
			want:     "user_id = $1 AND balance >= $2 AND balance <= $3 AND balance = $4 AND upper(currency) = ANY($5)",
			wantArgs: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := budgetFilterClauses(7, tt.filter)

			assert.Equal(t, tt.want, where)
			assert.Len(t, args, tt.wantArgs)
			assert.Equal(t, 7, args[0])
		})
	}
}
