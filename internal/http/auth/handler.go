package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daftarhq/daftar/internal/auth"
	"github.com/daftarhq/daftar/internal/user"
)

type Handler struct {
	users     *user.Service
	jwtSecret string
}

func NewHandler(users *user.Service, jwtSecret string) *Handler {
	return &Handler{users: users, jwtSecret: jwtSecret}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// errorMessages is the closed set of user-visible auth errors. Anything not
// listed here gets the generic message so internals never leak to clients.
var errorMessages = map[error]string{
	user.ErrEmailTaken:         "البريد الإلكتروني مستخدم بالفعل",
	user.ErrInvalidCredentials: "بيانات الدخول غير صحيحة",
	user.ErrWeakPassword:       "كلمة المرور قصيرة جداً",
	user.ErrBadEmail:           "البريد الإلكتروني غير صالح",
}

const genericMessage = "حدث خطأ، حاول مرة أخرى"

func writeAuthError(w http.ResponseWriter, err error, status int) {
	msg := genericMessage

	for key, m := range errorMessages {
		if errors.Is(err, key) {
			msg = m
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err, http.StatusBadRequest)
		return
	}

	h.writeSession(w, u, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err, http.StatusUnauthorized)
		return
	}

	h.writeSession(w, u, http.StatusOK)
}

func (h *Handler) writeSession(w http.ResponseWriter, u *user.User, status int) {
	token, err := auth.GenerateToken(u, h.jwtSecret)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := sessionResponse{
		Token: token,
		User:  userResponse{ID: u.ID, Email: u.Email, Role: u.Role},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
