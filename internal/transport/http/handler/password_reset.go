package handler

import (
	"encoding/json"
	"net/http"

	"github.com/takarapp/accounts-api/internal/application/passwordreset"
	"github.com/takarapp/accounts-api/internal/pkg/validate"
)

// PasswordResetHandler handles the forgot/verify/reset flow.
type PasswordResetHandler struct {
	svc passwordreset.Service
}

func NewPasswordResetHandler(svc passwordreset.Service) *PasswordResetHandler {
	return &PasswordResetHandler{svc: svc}
}

func (h *PasswordResetHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req passwordreset.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := h.svc.RequestCode(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Reset code sent to your email."})
}

func (h *PasswordResetHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req passwordreset.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := h.svc.VerifyCode(r.Context(), req.Email, req.Code); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Code verified successfully."})
}

func (h *PasswordResetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req passwordreset.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password has been reset."})
}
