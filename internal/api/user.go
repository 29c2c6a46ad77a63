package api

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/olehkozachenko/budget-api/internal/lib/jwt"
	"github.com/olehkozachenko/budget-api/internal/storage"
)

const minPasswordLength = 8

var userWritable = newFieldSet("email", "password")

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", errors.New("invalid email address")
	}
	return email, nil
}

func (s *APIServer) registerHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeWritable(r.Body, userWritable, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		email, err := normalizeEmail(req.Email)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if len(req.Password) < minPasswordLength {
			s.writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}

		passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("Failed to hash password", "error", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		user, err := s.storage.SaveUser(r.Context(), email, passHash)
		if err != nil {
			if errors.Is(err, storage.ErrEmailTaken) {
				s.writeError(w, http.StatusBadRequest, "email already registered")
				return
			}
			s.writeStorageError(w, err)
			return
		}

		s.logger.Info("Registered new user", "email", email)
		s.writeJSON(w, http.StatusCreated, user)
	}
}

func (s *APIServer) tokenHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeWritable(r.Body, userWritable, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		user, err := s.storage.UserByEmail(r.Context(), email)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			s.writeStorageError(w, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if !user.IsActive {
			s.writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		access, refresh, err := jwt.NewPair(user.ID, s.config.JWT.Secret, s.config.JWT.AccessTTL, s.config.JWT.RefreshTTL)
		if err != nil {
			s.logger.Error("Failed to sign token pair", "error", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		s.writeJSON(w, http.StatusOK, tokenPairResponse{Access: access, Refresh: refresh})
	}
}

func (s *APIServer) tokenRefreshHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Refresh string `json:"refresh"`
		}
		if err := decodeWritable(r.Body, newFieldSet("refresh"), &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		claims, err := jwt.Parse(req.Refresh, s.config.JWT.Secret)
		if err != nil || claims.TokenType != jwt.TypeRefresh {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := s.storage.UserByID(r.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		access, err := jwt.NewToken(user.ID, s.config.JWT.Secret, jwt.TypeAccess, s.config.JWT.AccessTTL)
		if err != nil {
			s.logger.Error("Failed to sign access token", "error", err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		s.writeJSON(w, http.StatusOK, struct {
			Access string `json:"access"`
		}{Access: access})
	}
}

func (s *APIServer) meHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r.Context())

		if r.Method == http.MethodGet {
			s.writeJSON(w, http.StatusOK, user)
			return
		}

		var req struct {
			Email    *string `json:"email"`
			Password *string `json:"password"`
		}
		if err := decodeWritable(r.Body, userWritable, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if r.Method == http.MethodPut && (req.Email == nil || req.Password == nil) {
			s.writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		email := user.Email
		if req.Email != nil {
			normalized, err := normalizeEmail(*req.Email)
			if err != nil {
				s.writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			email = normalized
		}

		passHash := []byte(user.PasswordHash)
		if req.Password != nil {
			if len(*req.Password) < minPasswordLength {
				s.writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
				return
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				s.logger.Error("Failed to hash password", "error", err)
				s.writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			passHash = hashed
		}

		updated, err := s.storage.UpdateUser(r.Context(), user.ID, email, passHash)
		if err != nil {
			if errors.Is(err, storage.ErrEmailTaken) {
				s.writeError(w, http.StatusBadRequest, "email already registered")
				return
			}
			s.writeStorageError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, updated)
	}
}
