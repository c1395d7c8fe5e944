package handler

import (
	"encoding/json"
	"net/http"

	"pantry/internal/auth"
	"pantry/internal/inventory"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	Svc *inventory.Service
	Log *zap.Logger
}

type inventoryDTO struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message,omitempty"`
	Inventory inventory.Inventory `json:"inventory"`
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	inv, err := h.Svc.GetOrCreate(r.Context(), ident.UserID)
	if err != nil {
		h.Log.Error("get inventory", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, inventoryDTO{Success: true, Inventory: inv})
}

type replaceReq struct {
	Ingredients []inventory.Ingredient `json:"ingredients"`
}

func (h *InventoryHandler) Replace(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	var req replaceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Ingredients == nil {
		writeError(w, http.StatusBadRequest, "Ingredients must be an array")
		return
	}

	inv, err := h.Svc.ReplaceAll(r.Context(), ident.UserID, req.Ingredients)
	if err != nil {
		if err == inventory.ErrNameRequired {
			writeError(w, http.StatusBadRequest, "Each ingredient must have a name")
			return
		}
		h.Log.Error("replace inventory", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, inventoryDTO{
		Success:   true,
		Message:   "Inventory updated successfully",
		Inventory: inv,
	})
}

type addIngredientReq struct {
	Ingredient *inventory.IngredientInput `json:"ingredient"`
}

func (h *InventoryHandler) AddIngredient(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	var req addIngredientReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Ingredient == nil {
		writeError(w, http.StatusBadRequest, "Ingredient must have at least a name")
		return
	}

	inv, err := h.Svc.Upsert(r.Context(), ident.UserID, *req.Ingredient)
	if err != nil {
		if err == inventory.ErrNameRequired {
			writeError(w, http.StatusBadRequest, "Ingredient must have at least a name")
			return
		}
		h.Log.Error("add ingredient", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, inventoryDTO{
		Success:   true,
		Message:   "Ingredient added successfully",
		Inventory: inv,
	})
}

func (h *InventoryHandler) RemoveIngredient(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	ingredientID := chi.URLParam(r, "ingredientId")

	inv, err := h.Svc.Remove(r.Context(), ident.UserID, ingredientID)
	if err != nil {
		switch err {
		case inventory.ErrInventoryNotFound:
			writeError(w, http.StatusNotFound, "Inventory not found")
		case inventory.ErrIngredientNotFound:
			writeError(w, http.StatusNotFound, "Ingredient not found")
		default:
			h.Log.Error("remove ingredient", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, inventoryDTO{
		Success:   true,
		Message:   "Ingredient removed successfully",
		Inventory: inv,
	})
}
