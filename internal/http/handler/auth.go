package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"pantry/internal/auth"

	"go.uber.org/zap"
)

type AuthHandler struct {
	Users auth.UserStore
	JWT   *auth.JWT
	Log   *zap.Logger
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Please enter a valid email address.")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters long.")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("hash password", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	u := auth.User{Email: req.Email, PasswordHash: hash}
	if err := h.Users.Create(r.Context(), &u); err != nil {
		if err == auth.ErrDuplicateEmail {
			h.Log.Info("registration rejected, email exists", zap.String("email", req.Email))
			writeError(w, http.StatusConflict, "User with this email already exists", "DUPLICATE_EMAIL")
			return
		}
		h.Log.Error("create user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.Log.Info("user registered", zap.String("email", req.Email), zap.Uint64("user_id", u.ID))
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"userId":  u.ID,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Please enter a valid email address.")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required.")
		return
	}

	// Lookup failure and bad password get the same answer on purpose.
	u, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if err != auth.ErrUserNotFound {
			h.Log.Error("lookup user", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !auth.ComparePassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.JWT.Sign(u.ID, u.Email)
	if err != nil {
		h.Log.Error("sign token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	h.Log.Info("user logged in", zap.String("email", req.Email))
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
	})
}

// validEmail is a shape check, not RFC validation: one @ with
// something on both sides and a dot in the domain.
func validEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1 && !strings.Contains(domain, "@")
}
