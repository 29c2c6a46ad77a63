package api

import (
	"net/http"
	"strings"

	"github.com/olehkozachenko/budget-api/internal/domain/models"
)

const maxCategoryNameLength = 50

var categoryWritable = newFieldSet("name", "category_type")

type categoryRequest struct {
	Name         *string `json:"name"`
	CategoryType *string `json:"category_type"`
}

func (r categoryRequest) validate() string {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return "name must not be empty"
		}
		if len(name) > maxCategoryNameLength {
			return "name is too long"
		}
	}
	if r.CategoryType != nil && !models.ValidCategoryType(*r.CategoryType) {
		return "category_type must be Income or Expense"
	}
	return ""
}

func (s *APIServer) listCategoriesHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		categories, err := s.storage.ListCategories(r.Context(), user.ID)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}
		if categories == nil {
			categories = []models.Category{}
		}

		s.writeJSON(w, http.StatusOK, categories)
	}
}

func (s *APIServer) createCategoryHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		var req categoryRequest
		if err := decodeWritable(r.Body, categoryWritable, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Name == nil || req.CategoryType == nil {
			s.writeError(w, http.StatusBadRequest, "name and category_type are required")
			return
		}
		if msg := req.validate(); msg != "" {
			s.writeError(w, http.StatusBadRequest, msg)
			return
		}

		category, err := s.storage.CreateCategory(r.Context(), user.ID, strings.TrimSpace(*req.Name), *req.CategoryType)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		s.writeJSON(w, http.StatusCreated, category)
	}
}

func (s *APIServer) getCategoryHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "not found")
			return
		}

		category, err := s.storage.CategoryByID(r.Context(), user.ID, id)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, category)
	}
}

func (s *APIServer) updateCategoryHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "not found")
			return
		}

		category, err := s.storage.CategoryByID(r.Context(), user.ID, id)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		var req categoryRequest
		if err := decodeWritable(r.Body, categoryWritable, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if r.Method == http.MethodPut && (req.Name == nil || req.CategoryType == nil) {
			s.writeError(w, http.StatusBadRequest, "name and category_type are required")
			return
		}
		if msg := req.validate(); msg != "" {
			s.writeError(w, http.StatusBadRequest, msg)
			return
		}

		name := category.Name
		if req.Name != nil {
			name = strings.TrimSpace(*req.Name)
		}
		categoryType := category.CategoryType
		if req.CategoryType != nil {
			categoryType = *req.CategoryType
		}

		updated, err := s.storage.UpdateCategory(r.Context(), user.ID, id, name, categoryType)
		if err != nil {
			s.writeStorageError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, updated)
	}
}

func (s *APIServer) deleteCategoryHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		id, err := pathID(r)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "not found")
			return
		}

		if err := s.storage.DeleteCategory(r.Context(), user.ID, id); err != nil {
			s.writeStorageError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
