package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pantry/internal/auth"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	Users auth.UserStore
	Log   *zap.Logger
}

type userDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserDTO(u auth.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if err == auth.ErrUserNotFound {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("get user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(u)})
}

type updateUserReq struct {
	Email string `json:"email"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req updateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "Please enter a valid email address.")
		return
	}

	u, err := h.Users.UpdateEmail(r.Context(), id, req.Email)
	if err != nil {
		if err == auth.ErrUserNotFound {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("update user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User profile updated successfully",
		"user":    toUserDTO(u),
	})
}

func parseUserID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return 0, false
	}
	return id, true
}
