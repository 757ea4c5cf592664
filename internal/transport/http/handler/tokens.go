package handler

import (
	"encoding/json"
	"net/http"

	"github.com/takarapp/accounts-api/internal/application/token"
	"github.com/takarapp/accounts-api/internal/pkg/validate"
)

// TokenHandler handles JWT issuance and refresh.
type TokenHandler struct {
	svc token.Service
}

func NewTokenHandler(svc token.Service) *TokenHandler { return &TokenHandler{svc: svc} }

func (h *TokenHandler) Obtain(w http.ResponseWriter, r *http.Request) {
	var req token.ObtainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	pair, err := h.svc.Obtain(r.Context(), req)
	if err != nil {
		// Always the same message: don't reveal whether the email exists.
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (h *TokenHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		writeError(w, http.StatusBadRequest, "refresh required")
		return
	}
	pair, err := h.svc.Refresh(r.Context(), req.Refresh)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
