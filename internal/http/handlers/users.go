package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/hongminglow/medplat-be/internal/auth"
	"github.com/hongminglow/medplat-be/internal/http/respond"
	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/models/dto"
	"github.com/hongminglow/medplat-be/internal/storage"
)

// UsersHandler serves the admin-only user management endpoints.
type UsersHandler struct {
	users  storage.UserStore
	logger logrus.FieldLogger
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users storage.UserStore, logger logrus.FieldLogger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

// Register attaches the user management routes.
func (h *UsersHandler) Register(r *mux.Router, protect Protect) {
	r.Handle("/users", protect(http.HandlerFunc(h.handleList))).Methods(http.MethodGet)
	r.Handle("/users/set-role", protect(http.HandlerFunc(h.handleSetRole))).Methods(http.MethodPost)
}

func (h *UsersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if err := auth.RequireRole(currentUser(r), models.RoleAdmin); err != nil {
		respond.Error(w, http.StatusForbidden, "Admins only")
		return
	}
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("list users")
		respond.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	respond.JSON(w, http.StatusOK, dto.UsersResponse{Users: out})
}

func (h *UsersHandler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	if err := auth.RequireRole(currentUser(r), models.RoleAdmin); err != nil {
		respond.Error(w, http.StatusForbidden, "Admins only")
		return
	}
	var req dto.SetRoleRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || strings.TrimSpace(req.Role) == "" {
		respond.Error(w, http.StatusBadRequest, "Username and role required")
		return
	}
	role, _ := models.ParseRole(req.Role)
	if err := h.users.UpdateRole(r.Context(), username, role); err != nil {
		h.logger.WithError(err).Error("update role")
		respond.Error(w, http.StatusInternalServerError, "failed to update role")
		return
	}
	respond.JSON(w, http.StatusOK, dto.MessageResponse{Msg: fmt.Sprintf("Role for %s set to %s", username, role)})
}
