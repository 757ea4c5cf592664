package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/takarapp/accounts-api/internal/domain"
	"github.com/takarapp/accounts-api/internal/pkg/validate"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FieldErrorsEnvelope carries per-field validation failures.
type FieldErrorsEnvelope struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// SafeUser is the serialized user shape. It never includes the password hash.
type SafeUser struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Phone    *string   `json:"phone,omitempty"`
	Created  time.Time `json:"created"`
}

func toSafeUser(u *domain.User) *SafeUser {
	if u == nil {
		return nil
	}
	return &SafeUser{
		ID:       u.UserID,
		Email:    u.Email,
		Username: u.Username,
		Phone:    u.Phone,
		Created:  u.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeValidationError maps validator failures to a 400 with per-field detail.
func writeValidationError(w http.ResponseWriter, err error) {
	var fe validate.FieldErrors
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusBadRequest, FieldErrorsEnvelope{Error: "validation failed", Fields: fe})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// httpError maps domain sentinel errors onto HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDelivery):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
