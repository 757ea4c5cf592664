package token

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/takarapp/accounts-api/internal/domain"
	jwtinfra "github.com/takarapp/accounts-api/internal/infrastructure/jwt"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProvider struct{ mock.Mock }

func (m *mockProvider) SignAccess(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}
func (m *mockProvider) SignRefresh(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}
func (m *mockProvider) Verify(tokenStr, wantType string) (*jwtinfra.Claims, error) {
	args := m.Called(tokenStr, wantType)
	if c, _ := args.Get(0).(*jwtinfra.Claims); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func userWithPassword(t *testing.T, pw string) *domain.User {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{UserID: "u1", Email: "a@x.com", PasswordHash: string(h)}
}

// --- Obtain ---

func TestObtain_UnknownEmail_And_WrongPassword_SameError(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "missing@x.com").Return(nil, domain.ErrNotFound)
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(userWithPassword(t, "pw1"), nil)

	svc := NewService(us, &mockProvider{})

	_, errUnknown := svc.Obtain(context.Background(), ObtainRequest{Email: "missing@x.com", Password: "pw1"})
	_, errWrongPw := svc.Obtain(context.Background(), ObtainRequest{Email: "a@x.com", Password: "nope"})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	// Neither case may reveal which part was wrong.
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	assert.True(t, errors.Is(errUnknown, domain.ErrUnauthorized))
	assert.True(t, errors.Is(errWrongPw, domain.ErrUnauthorized))
	assert.False(t, errors.Is(errUnknown, domain.ErrNotFound))
}

func TestObtain_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	mp := &mockProvider{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(userWithPassword(t, "pw1"), nil)
	mp.On("SignAccess", "u1", "a@x.com").Return("access-token", nil)
	mp.On("SignRefresh", "u1", "a@x.com").Return("refresh-token", nil)

	svc := NewService(us, mp)
	pair, err := svc.Obtain(context.Background(), ObtainRequest{Email: "a@x.com", Password: "pw1"})

	require.NoError(t, err)
	assert.Equal(t, "access-token", pair.Access)
	assert.Equal(t, "refresh-token", pair.Refresh)
	mp.AssertExpectations(t)
}

// --- Refresh ---

func TestRefresh_InvalidToken(t *testing.T) {
	mp := &mockProvider{}
	mp.On("Verify", "bad", jwtinfra.TypeRefresh).Return(nil, errors.New("token is malformed"))

	svc := NewService(&mockUserStore{}, mp)
	_, err := svc.Refresh(context.Background(), "bad")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRefresh_UserGone(t *testing.T) {
	us := &mockUserStore{}
	mp := &mockProvider{}
	mp.On("Verify", "refresh-token", jwtinfra.TypeRefresh).Return(&jwtinfra.Claims{UserID: "u1", Email: "a@x.com"}, nil)
	us.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)

	svc := NewService(us, mp)
	_, err := svc.Refresh(context.Background(), "refresh-token")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestRefresh_HappyPath_AccessOnly(t *testing.T) {
	us := &mockUserStore{}
	mp := &mockProvider{}
	mp.On("Verify", "refresh-token", jwtinfra.TypeRefresh).Return(&jwtinfra.Claims{UserID: "u1", Email: "a@x.com"}, nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Email: "a@x.com"}, nil)
	mp.On("SignAccess", "u1", "a@x.com").Return("new-access", nil)

	svc := NewService(us, mp)
	pair, err := svc.Refresh(context.Background(), "refresh-token")

	require.NoError(t, err)
	assert.Equal(t, "new-access", pair.Access)
	assert.Empty(t, pair.Refresh)
}
