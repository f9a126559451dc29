package authhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ams/internal/auth"
	"ams/internal/domain/user"
	"ams/internal/transport/http/api"
	"ams/internal/transport/http/middleware"
)

// CredentialStore is the slice of the user store the login flow needs.
type CredentialStore interface {
	PasswordHashByUsername(ctx context.Context, username string) (string, string, error)
	Get(ctx context.Context, id string) (*user.User, error)
}

type Handler struct {
	Store     CredentialStore
	JWTSecret string
	TokenTTL  time.Duration
}

func NewHandler(store CredentialStore, jwtSecret string, tokenTTL time.Duration) *Handler {
	return &Handler{Store: store, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "username and password are required", requestID)
		return
	}

	userID, hash, err := h.Store.PasswordHashByUsername(r.Context(), payload.Username)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password", requestID)
		return
	}
	if err := auth.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password", requestID)
		return
	}

	u, err := h.Store.Get(r.Context(), userID)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, auth.Claims{
		UserID:         u.ID,
		Role:           string(u.Role),
		HeadquartersID: u.HeadquartersID,
	}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", requestID)
		return
	}

	api.Success(w, loginResponse{Token: token, User: u}, requestID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	u, err := h.Store.Get(r.Context(), actor.ID)
	if err != nil {
		api.FailErr(w, err, requestID)
		return
	}
	api.Success(w, u, requestID)
}
