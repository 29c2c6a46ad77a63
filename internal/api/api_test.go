package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/olehkozachenko/budget-api/internal/config"
	"github.com/olehkozachenko/budget-api/internal/domain/models"
	"github.com/olehkozachenko/budget-api/internal/lib/filters"
	"github.com/olehkozachenko/budget-api/internal/lib/jwt"
	"github.com/olehkozachenko/budget-api/internal/storage"
)

const testPassword = "testpass123"

// fakeStorage is an in-memory Storage with the same ownership semantics as
// the postgres backend: lookups scoped by user id, foreign records
// indistinguishable from missing ones.
type fakeStorage struct {
	users        map[int]*models.User
	budgets      map[int]*models.Budget
	categories   map[int]*models.Category
	transactions map[int]*models.Transaction
	nextID       int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		users:        make(map[int]*models.User),
		budgets:      make(map[int]*models.Budget),
		categories:   make(map[int]*models.Category),
		transactions: make(map[int]*models.Transaction),
		nextID:       1,
	}
}

func (fs *fakeStorage) id() int {
	id := fs.nextID
	fs.nextID++
	return id
}

func (fs *fakeStorage) SaveUser(ctx context.Context, email string, passHash []byte) (*models.User, error) {
	for _, u := range fs.users {
		if u.Email == email {
			return nil, storage.ErrEmailTaken
		}
	}
	user := &models.User{
		ID:           fs.id(),
		Email:        email,
		PasswordHash: string(passHash),
		IsActive:     true,
		Created:      time.Now(),
	}
	fs.users[user.ID] = user
	return user, nil
}

func (fs *fakeStorage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range fs.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (fs *fakeStorage) UserByID(ctx context.Context, id int) (*models.User, error) {
	if u, ok := fs.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (fs *fakeStorage) UpdateUser(ctx context.Context, id int, email string, passHash []byte) (*models.User, error) {
	u, ok := fs.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	for _, other := range fs.users {
		if other.ID != id && other.Email == email {
			return nil, storage.ErrEmailTaken
		}
	}
	u.Email = email
	u.PasswordHash = string(passHash)
	return u, nil
}

func (fs *fakeStorage) CreateBudget(ctx context.Context, userID int, currency string, balance decimal.Decimal) (*models.Budget, error) {
	b := &models.Budget{
		ID:       fs.id(),
		UserID:   userID,
		Currency: currency,
		Balance:  balance,
		Created:  time.Now(),
	}
	fs.budgets[b.ID] = b
	return b, nil
}

func (fs *fakeStorage) ListBudgets(ctx context.Context, userID int, f filters.Budget) ([]models.Budget, error) {
	var out []models.Budget
	for _, b := range fs.budgets {
		if b.UserID != userID {
			continue
		}
		if f.Balance != nil && !b.Balance.Equal(*f.Balance) {
			continue
		}
		if f.MinBalance != nil && b.Balance.LessThan(*f.MinBalance) {
			continue
		}
		if f.MaxBalance != nil && b.Balance.GreaterThan(*f.MaxBalance) {
			continue
		}
		if len(f.Currencies) > 0 {
			match := false
			for _, c := range f.Currencies {
				if b.Currency == c {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (fs *fakeStorage) BudgetByID(ctx context.Context, userID, id int) (*models.Budget, error) {
	b, ok := fs.budgets[id]
	if !ok || b.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return b, nil
}

func (fs *fakeStorage) UpdateBudget(ctx context.Context, userID, id int, currency string, balance decimal.Decimal) (*models.Budget, error) {
	b, err := fs.BudgetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	b.Currency = currency
	b.Balance = balance
	return b, nil
}

func (fs *fakeStorage) DeleteBudget(ctx context.Context, userID, id int) error {
	if _, err := fs.BudgetByID(ctx, userID, id); err != nil {
		return err
	}
	delete(fs.budgets, id)
	for txID, tx := range fs.transactions {
		if tx.BudgetID == id {
			delete(fs.transactions, txID)
		}
	}
	return nil
}

func (fs *fakeStorage) CreateCategory(ctx context.Context, userID int, name, categoryType string) (*models.Category, error) {
	c := &models.Category{
		ID:           fs.id(),
		UserID:       userID,
		Name:         name,
		CategoryType: categoryType,
		Created:      time.Now(),
	}
	fs.categories[c.ID] = c
	return c, nil
}

func (fs *fakeStorage) ListCategories(ctx context.Context, userID int) ([]models.Category, error) {
	var out []models.Category
	for _, c := range fs.categories {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (fs *fakeStorage) CategoryByID(ctx context.Context, userID, id int) (*models.Category, error) {
	c, ok := fs.categories[id]
	if !ok || c.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return c, nil
}

func (fs *fakeStorage) UpdateCategory(ctx context.Context, userID, id int, name, categoryType string) (*models.Category, error) {
	c, err := fs.CategoryByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.CategoryType = categoryType
	return c, nil
}

func (fs *fakeStorage) DeleteCategory(ctx context.Context, userID, id int) error {
	if _, err := fs.CategoryByID(ctx, userID, id); err != nil {
		return err
	}
	delete(fs.categories, id)
	return nil
}

func (fs *fakeStorage) CreateTransaction(ctx context.Context, budgetID, categoryID int, amount decimal.Decimal, notes string) (*models.Transaction, error) {
	if _, ok := fs.budgets[budgetID]; !ok {
		return nil, storage.ErrReferenceGone
	}
	if _, ok := fs.categories[categoryID]; !ok {
		return nil, storage.ErrReferenceGone
	}
	tx := &models.Transaction{
		ID:         fs.id(),
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Amount:     amount,
		Notes:      notes,
		Created:    time.Now(),
	}
	fs.transactions[tx.ID] = tx
	return tx, nil
}

func (fs *fakeStorage) ownsTransaction(userID int, tx *models.Transaction) bool {
	b, ok := fs.budgets[tx.BudgetID]
	return ok && b.UserID == userID
}

func (fs *fakeStorage) ListTransactions(ctx context.Context, userID int) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range fs.transactions {
		if fs.ownsTransaction(userID, tx) {
			out = append(out, *tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (fs *fakeStorage) TransactionByID(ctx context.Context, userID, id int) (*models.Transaction, error) {
	tx, ok := fs.transactions[id]
	if !ok || !fs.ownsTransaction(userID, tx) {
		return nil, storage.ErrNotFound
	}
	return tx, nil
}

func (fs *fakeStorage) UpdateTransaction(ctx context.Context, userID, id, categoryID int, amount decimal.Decimal, notes string) (*models.Transaction, error) {
	tx, err := fs.TransactionByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	tx.CategoryID = categoryID
	tx.Amount = amount
	tx.Notes = notes
	return tx, nil
}

func (fs *fakeStorage) DeleteTransaction(ctx context.Context, userID, id int) error {
	if _, err := fs.TransactionByID(ctx, userID, id); err != nil {
		return err
	}
	delete(fs.transactions, id)
	return nil
}

// ========================================================
// Test server plumbing
// ========================================================

func testConfig() *config.Config {
	return &config.Config{
		Env:     "local",
		ApiHost: "localhost",
		ApiPort: 8080,
		JWT: config.JWT{
			Secret:     "test-secret",
			AccessTTL:  time.Minute,
			RefreshTTL: time.Hour,
		},
	}
}

func newTestServer(t *testing.T) (*APIServer, *fakeStorage) {
	t.Helper()

	fs := newFakeStorage()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(testConfig(), logger, fs)
	srv.configureRouter()

	return srv, fs
}

func createTestUser(t *testing.T, fs *fakeStorage, email string) *models.User {
	t.Helper()

	passHash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := fs.SaveUser(context.Background(), email, passHash)
	require.NoError(t, err)
	return user
}

func accessToken(t *testing.T, srv *APIServer, userID int) string {
	t.Helper()

	token, err := jwt.NewToken(userID, srv.config.JWT.Secret, jwt.TypeAccess, time.Minute)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, srv *APIServer, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}
