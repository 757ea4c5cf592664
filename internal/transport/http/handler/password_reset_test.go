package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/takarapp/accounts-api/internal/application/passwordreset"
	"github.com/takarapp/accounts-api/internal/domain"
)

// --- mock ---

type mockResetSvc struct{ mock.Mock }

func (m *mockResetSvc) RequestCode(ctx context.Context, req passwordreset.ForgotPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockResetSvc) VerifyCode(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}
func (m *mockResetSvc) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return m.Called(ctx, email, code, newPassword).Error(0)
}

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(body)))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// --- Forgot ---

func TestForgot_UnknownUser_404(t *testing.T) {
	svc := &mockResetSvc{}
	svc.On("RequestCode", mock.Anything, mock.Anything).
		Return(fmt.Errorf("user with this email does not exist: %w", domain.ErrNotFound))

	rr := postJSON(NewPasswordResetHandler(svc).Forgot, `{"email":"x@x.com"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestForgot_DeliveryFailure_500(t *testing.T) {
	svc := &mockResetSvc{}
	svc.On("RequestCode", mock.Anything, mock.Anything).
		Return(fmt.Errorf("failed to send email: %w", domain.ErrDelivery))

	rr := postJSON(NewPasswordResetHandler(svc).Forgot, `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestForgot_InvalidEmail_400WithFieldErrors(t *testing.T) {
	rr := postJSON(NewPasswordResetHandler(&mockResetSvc{}).Forgot, `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var env FieldErrorsEnvelope
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Contains(t, env.Fields, "email")
}

func TestForgot_HappyPath_200(t *testing.T) {
	svc := &mockResetSvc{}
	svc.On("RequestCode", mock.Anything, passwordreset.ForgotPasswordRequest{Email: "a@x.com"}).Return(nil)

	rr := postJSON(NewPasswordResetHandler(svc).Forgot, `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var env MessageEnvelope
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "Reset code sent to your email.", env.Message)
	svc.AssertExpectations(t)
}

// --- Verify ---

func TestVerify_InvalidOrExpired_400(t *testing.T) {
	svc := &mockResetSvc{}
	svc.On("VerifyCode", mock.Anything, "a@x.com", "482913").
		Return(fmt.Errorf("invalid or expired code: %w", domain.ErrBadRequest))

	rr := postJSON(NewPasswordResetHandler(svc).Verify, `{"email":"a@x.com","code":"482913"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestVerify_MalformedCode_400BeforeService(t *testing.T) {
	svc := &mockResetSvc{}

	rr := postJSON(NewPasswordResetHandler(svc).Verify, `{"email":"a@x.com","code":"12"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "VerifyCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_HappyPath_200(t *testing.T) {
	svc := &mockResetSvc{}
	svc.On("VerifyCode", mock.Anything, "a@x.com", "482913").Return(nil)

	rr := postJSON(NewPasswordResetHandler(svc).Verify, `{"email":"a@x.com","code":"482913"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var env MessageEnvelope
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "Code verified successfully.", env.Message)
}

// --- Reset ---

func TestReset_HappyPath_200(t *testing.T) {
	svc := &mockResetSvc{}
	svc.On("ResetPassword", mock.Anything, "a@x.com", "482913", "pw2").Return(nil)

	rr := postJSON(NewPasswordResetHandler(svc).Reset, `{"email":"a@x.com","code":"482913","new_password":"pw2"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var env MessageEnvelope
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "Password has been reset.", env.Message)
	svc.AssertExpectations(t)
}

func TestReset_MissingNewPassword_400(t *testing.T) {
	svc := &mockResetSvc{}

	rr := postJSON(NewPasswordResetHandler(svc).Reset, `{"email":"a@x.com","code":"482913"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "ResetPassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
