package handlers

import (
	"errors"
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

// AuthHandler owns registration, login and self-service account endpoints.
type AuthHandler struct {
	users  storage.UserStore
	hasher *auth.Hasher
	tokens *auth.TokenManager
	logger logrus.FieldLogger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(users storage.UserStore, hasher *auth.Hasher, tokens *auth.TokenManager, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{users: users, hasher: hasher, tokens: tokens, logger: logger}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r *mux.Router, protect Protect) {
	r.HandleFunc("/register", h.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/token", h.handleToken).Methods(http.MethodPost)
	r.Handle("/me", protect(http.HandlerFunc(h.handleMe))).Methods(http.MethodGet)
	r.Handle("/change-password", protect(http.HandlerFunc(h.handleChangePassword))).Methods(http.MethodPost)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Username and password required")
		return
	}
	role, known := models.ParseRole(req.Role)
	if !known {
		h.logger.WithFields(logrus.Fields{"username": username, "role": role}).Info("registering user with unrecognised role")
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		if auth.IsTooLong(err) {
			respond.Error(w, http.StatusBadRequest, "Password too long")
			return
		}
		h.logger.WithError(err).Error("hash password")
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	_, err = h.users.CreateUser(r.Context(), models.User{Username: username, Role: role, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusBadRequest, "Username already registered")
			return
		}
		h.logger.WithError(err).Error("create user")
		respond.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	respond.JSON(w, http.StatusOK, dto.MessageResponse{Msg: "User registered"})
}

func (h *AuthHandler) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid form payload")
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		respond.Error(w, http.StatusBadRequest, "Incorrect username or password")
		return
	}

	user, err := h.users.FindByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.logger.WithError(err).Error("load user for login")
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if err != nil || !h.hasher.Verify(password, user.PasswordHash) {
		respond.Error(w, http.StatusBadRequest, "Incorrect username or password")
		return
	}

	token, err := h.tokens.Issue(user.Username, auth.AccessTokenTTL)
	if err != nil {
		h.logger.WithError(err).Error("issue token")
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, currentUser(r).Summary())
}

func (h *AuthHandler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Password required")
		return
	}
	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		if auth.IsTooLong(err) {
			respond.Error(w, http.StatusBadRequest, "Password too long")
			return
		}
		h.logger.WithError(err).Error("hash password")
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := h.users.UpdatePassword(r.Context(), currentUser(r).Username, hash); err != nil {
		h.logger.WithError(err).Error("update password")
		respond.Error(w, http.StatusInternalServerError, "failed to update password")
		return
	}
	respond.JSON(w, http.StatusOK, dto.MessageResponse{Msg: "Password updated"})
}
