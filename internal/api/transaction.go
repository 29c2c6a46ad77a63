package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/olehkozachenko/budget-api/internal/domain/models"
)

// The budget reference is only writable at creation; updates may move a
// transaction between categories but never between budgets, so the owner
// chain stays fixed.
var (
	transactionCreateWritable = newFieldSet("budget", "category", "amount", "notes")
	transactionWritable       = newFieldSet("category", "amount", "notes")
)

type transactionRequest struct {
	Budget   *int             `json:"budget"`
	Category *int             `json:"category"`
	Amount   *decimal.Decimal `json:"amount"`
	Notes    *string          `json:"notes"`
}

func (s *APIServer) listTransactionsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		transactions, err := s.storage.ListTransactions(r.Context(), user.ID)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}
		if transactions == nil {
			transactions = []models.Transaction{}
		}

		s.writeJSON(w, http.StatusOK, transactions)
	}
}

func (s *APIServer) createTransactionHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		var req transactionRequest
		if err := decodeWritable(r.Body, transactionCreateWritable, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Budget == nil || req.Category == nil || req.Amount == nil {
			s.writeError(w, http.StatusBadRequest, "budget, category and amount are required")
			return
		}
		if !models.ValidMoney(*req.Amount) {
			s.writeError(w, http.StatusBadRequest, "amount out of range")
			return
		}

		// Both references must resolve within the caller's scope. A budget
		// or category owned by someone else reads as missing.
		if _, err := s.storage.BudgetByID(r.Context(), user.ID, *req.Budget); err != nil {
			s.writeStorageError(w, err)
			return
		}
		if _, err := s.storage.CategoryByID(r.Context(), user.ID, *req.Category); err != nil {
			s.writeStorageError(w, err)
			return
		}

		notes := ""
		if req.Notes != nil {
			notes = *req.Notes
		}

		tx, err := s.storage.CreateTransaction(r.Context(), *req.Budget, *req.Category, *req.Amount, notes)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		s.writeJSON(w, http.StatusCreated, tx)
	}
}

func (s *APIServer) getTransactionHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "not found")
			return
		}

		tx, err := s.storage.TransactionByID(r.Context(), user.ID, id)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, tx)
	}
}

func (s *APIServer) updateTransactionHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "not found")
			return
		}

		tx, err := s.storage.TransactionByID(r.Context(), user.ID, id)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		var req transactionRequest
		if err := decodeWritable(r.Body, transactionWritable, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if r.Method == http.MethodPut && (req.Category == nil || req.Amount == nil) {
			s.writeError(w, http.StatusBadRequest, "category and amount are required")
			return
		}

		categoryID := tx.CategoryID
		if req.Category != nil {
			if _, err := s.storage.CategoryByID(r.Context(), user.ID, *req.Category); err != nil {
				s.writeStorageError(w, err)
				return
			}
			categoryID = *req.Category
		}

		amount := tx.Amount
		if req.Amount != nil {
			amount = *req.Amount
			if !models.ValidMoney(amount) {
				s.writeError(w, http.StatusBadRequest, "amount out of range")
				return
			}
		}

		notes := tx.Notes
		if req.Notes != nil {
			notes = *req.Notes
		}

		updated, err := s.storage.UpdateTransaction(r.Context(), user.ID, id, categoryID, amount, notes)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, updated)
	}
}

func (s *APIServer) deleteTransactionHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "not found")
			return
		}

		if err := s.storage.DeleteTransaction(r.Context(), user.ID, id); err != nil {
			s.writeStorageError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
