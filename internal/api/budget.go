package api

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/olehkozachenko/budget-api/internal/domain/models"
	"github.com/olehkozachenko/budget-api/internal/lib/filters"
)

// Clients may set currency and balance only. The owner comes from the
// authenticated identity and a user field in the payload is dropped.
var budgetWritable = newFieldSet("currency", "balance")

type budgetRequest struct {
	Currency *string          `json:"currency"`
	Balance  *decimal.Decimal `json:"balance"`
}

func (s *APIServer) listBudgetsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		f, err := filters.ParseBudget(r.URL.Query())
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		budgets, err := s.storage.ListBudgets(r.Context(), user.ID, f)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}
		if budgets == nil {
			budgets = []models.Budget{}
		}

		s.writeJSON(w, http.StatusOK, budgets)
	}
}

func (s *APIServer) createBudgetHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		var req budgetRequest
		if err := decodeWritable(r.Body, budgetWritable, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Currency == nil {
			s.writeError(w, http.StatusBadRequest, "currency is required")
			return
		}
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if !models.SupportedCurrency(currency) {
			s.writeError(w, http.StatusBadRequest, "unsupported currency")
			return
		}

		balance := decimal.Zero
		if req.Balance != nil {
			balance = *req.Balance
		}
		if !models.ValidMoney(balance) {
			s.writeError(w, http.StatusBadRequest, "balance out of range")
			return
		}

		budget, err := s.storage.CreateBudget(r.Context(), user.ID, currency, balance)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		s.writeJSON(w, http.StatusCreated, budget)
	}
}

func (s *APIServer) getBudgetHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "not found")
			return
		}

		budget, err := s.storage.BudgetByID(r.Context(), user.ID, id)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, budget)
	}
}

func (s *APIServer) updateBudgetHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "not found")
			return
		}

		// Ownership check happens before the payload is looked at, so a
		// foreign budget fails identically to a missing one.
		budget, err := s.storage.BudgetByID(r.Context(), user.ID, id)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		var req budgetRequest
		if err := decodeWritable(r.Body, budgetWritable, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if r.Method == http.MethodPut && (req.Currency == nil || req.Balance == nil) {
			s.writeError(w, http.StatusBadRequest, "currency and balance are required")
			return
		}

		currency := budget.Currency
		if req.Currency != nil {
			currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
			if !models.SupportedCurrency(currency) {
				s.writeError(w, http.StatusBadRequest, "unsupported currency")
				return
			}
		}

		balance := budget.Balance
		if req.Balance != nil {
			balance = *req.Balance
			if !models.ValidMoney(balance) {
				s.writeError(w, http.StatusBadRequest, "balance out of range")
				return
			}
		}

		updated, err := s.storage.UpdateBudget(r.Context(), user.ID, id, currency, balance)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, updated)
	}
}

func (s *APIServer) deleteBudgetHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "not found")
			return
		}

		if err := s.storage.DeleteBudget(r.Context(), user.ID, id); err != nil {
			s.writeStorageError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
