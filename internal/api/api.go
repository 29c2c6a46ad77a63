package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/olehkozachenko/budget-api/internal/config"
	"github.com/olehkozachenko/budget-api/internal/domain/models"
	"github.com/olehkozachenko/budget-api/internal/lib/filters"
	"github.com/olehkozachenko/budget-api/internal/lib/jwt"
)

// Storage is the persistence surface the handlers need. All lookups on owned
// resources take the owner's user id and treat foreign records as missing.
type Storage interface {
	SaveUser(ctx context.Context, email string, passHash []byte) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id int) (*models.User, error)
	UpdateUser(ctx context.Context, id int, email string, passHash []byte) (*models.User, error)

	CreateBudget(ctx context.Context, userID int, currency string, balance decimal.Decimal) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID int, f filters.Budget) ([]models.Budget, error)
	BudgetByID(ctx context.Context, userID, id int) (*models.Budget, error)
	UpdateBudget(ctx context.Context, userID, id int, currency string, balance decimal.Decimal) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id int) error

	CreateCategory(ctx context.Context, userID int, name, categoryType string) (*models.Category, error)
	ListCategories(ctx context.Context, userID int) ([]models.Category, error)
	CategoryByID(ctx context.Context, userID, id int) (*models.Category, error)
	UpdateCategory(ctx context.Context, userID, id int, name, categoryType string) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, id int) error

	CreateTransaction(ctx context.Context, budgetID, categoryID int, amount decimal.Decimal, notes string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int) ([]models.Transaction, error)
	TransactionByID(ctx context.Context, userID, id int) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id, categoryID int, amount decimal.Decimal, notes string) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int) error
}

type APIServer struct {
	config  *config.Config
	logger  *slog.Logger
	server  *http.Server
	storage Storage
}

func New(config *config.Config, logger *slog.Logger, storage Storage) *APIServer {
	return &APIServer{
		config: config,
		logger: logger,
		server: &http.Server{
			Addr: config.ApiHost + ":" + strconv.Itoa(config.ApiPort),
		},
		storage: storage,
	}
}

func (s *APIServer) Start() error {
	s.logger.Info("Starting server", slog.String("port", strconv.Itoa(s.config.ApiPort)))

	s.configureRouter()

	return s.server.ListenAndServe()
}

func (s *APIServer) MustStart() {
	err := s.Start()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic("Failed to start server: " + err.Error())
	}
}

func (s *APIServer) Stop(ctx context.Context) error {
	defer s.logger.Info("Server successfully stopped")
	return s.server.Shutdown(ctx)
}

func (s *APIServer) configureRouter() {
	router := mux.NewRouter()

	router.HandleFunc("/api/user/create", s.registerHandler()).Methods("POST")
	router.HandleFunc("/api/user/token", s.tokenHandler()).Methods("POST")
	router.HandleFunc("/api/user/token/refresh", s.tokenRefreshHandler()).Methods("POST")
	router.HandleFunc("/api/user/me", s.authenticate(s.meHandler())).Methods("GET", "PUT", "PATCH")

	router.HandleFunc("/api/budget/budgets", s.authenticate(s.listBudgetsHandler())).Methods("GET")
	router.HandleFunc("/api/budget/budgets", s.authenticate(s.createBudgetHandler())).Methods("POST")
	router.HandleFunc("/api/budget/budgets/{id:[0-9]+}", s.authenticate(s.getBudgetHandler())).Methods("GET")
	router.HandleFunc("/api/budget/budgets/{id:[0-9]+}", s.authenticate(s.updateBudgetHandler())).Methods("PUT", "PATCH")
	router.HandleFunc("/api/budget/budgets/{id:[0-9]+}", s.authenticate(s.deleteBudgetHandler())).Methods("DELETE")

	router.HandleFunc("/api/budget/categories", s.authenticate(s.listCategoriesHandler())).Methods("GET")
	router.HandleFunc("/api/budget/categories", s.authenticate(s.createCategoryHandler())).Methods("POST")
	router.HandleFunc("/api/budget/categories/{id:[0-9]+}", s.authenticate(s.getCategoryHandler())).Methods("GET")
	router.HandleFunc("/api/budget/categories/{id:[0-9]+}", s.authenticate(s.updateCategoryHandler())).Methods("PUT", "PATCH")
	router.HandleFunc("/api/budget/categories/{id:[0-9]+}", s.authenticate(s.deleteCategoryHandler())).Methods("DELETE")

	router.HandleFunc("/api/budget/transactions", s.authenticate(s.listTransactionsHandler())).Methods("GET")
	router.HandleFunc("/api/budget/transactions", s.authenticate(s.createTransactionHandler())).Methods("POST")
	router.HandleFunc("/api/budget/transactions/{id:[0-9]+}", s.authenticate(s.getTransactionHandler())).Methods("GET")
	router.HandleFunc("/api/budget/transactions/{id:[0-9]+}", s.authenticate(s.updateTransactionHandler())).Methods("PUT", "PATCH")
	router.HandleFunc("/api/budget/transactions/{id:[0-9]+}", s.authenticate(s.deleteTransactionHandler())).Methods("DELETE")

	s.server.Handler = router
}

type ctxKey int

const userContextKey ctxKey = iota

// authenticate rejects the request before any handler runs unless it carries
// a valid access token for an existing, active user.
func (s *APIServer) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenHeader := r.Header.Get("Authorization")
		if tokenHeader == "" {
			s.writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		parts := strings.Split(tokenHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			s.writeError(w, http.StatusUnauthorized, "invalid token format")
			return
		}

		claims, err := jwt.Parse(parts[1], s.config.JWT.Secret)
		if err != nil || claims.TokenType != jwt.TypeAccess {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := s.storage.UserByID(r.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}

// currentUser returns the authenticated user placed in the context by
// authenticate.
func currentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}
