package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/homestay-console/backend/internal/api/middleware"
	"github.com/homestay-console/backend/internal/models"
	"github.com/homestay-console/backend/internal/storage"
)

// ListUsers returns all operator accounts.
func ListUsers(repo *storage.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := repo.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		middleware.WriteJSON(w, http.StatusOK, users)
	}
}

// CreateUser adds an operator account.
func CreateUser(repo *storage.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user models.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user.Username = strings.TrimSpace(user.Username)
		if user.Username == "" {
			middleware.WriteError(w, http.StatusBadRequest, "username is required")
			return
		}
		if user.Role == "" {
			user.Role = models.RoleStaff
		}
		if !models.ValidRole(user.Role) {
			middleware.WriteError(w, http.StatusBadRequest, "role must be admin or staff")
			return
		}

		if err := repo.Create(r.Context(), &user); err != nil {
			if errors.Is(err, storage.ErrDuplicateUsername) {
				middleware.WriteError(w, http.StatusConflict, err.Error())
				return
			}
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		middleware.WriteJSON(w, http.StatusCreated, user)
	}
}

// UpdateUserRole changes an account's role.
func UpdateUserRole(repo *storage.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req struct {
			Role models.UserRole `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !models.ValidRole(req.Role) {
			middleware.WriteError(w, http.StatusBadRequest, "role must be admin or staff")
			return
		}

		updated, err := repo.UpdateRole(r.Context(), id, req.Role)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !updated {
			middleware.WriteError(w, http.StatusNotFound, "user not found")
			return
		}

		user, err := repo.Get(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		middleware.WriteJSON(w, http.StatusOK, user)
	}
}

// DeleteUser removes an operator account.
func DeleteUser(repo *storage.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		deleted, err := repo.Delete(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !deleted {
			middleware.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
	}
}
