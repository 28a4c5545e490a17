package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/model"
)

type memUsers struct {
	byID map[string]*model.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return apperror.ErrEmailTaken
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	return m.byID[id], nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func newTestProvider() (*LocalProvider, *memUsers) {
	users := newMemUsers()
	p := NewLocalProvider(users, Config{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	return p, users
}

func TestCreateUserAndSignIn(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()

	u, err := p.CreateUser(ctx, " Owner@Example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", u.Email)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	s, err := p.SignIn(ctx, "owner@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, s.AccessToken)
	assert.NotEmpty(t, s.RefreshToken)
	assert.Equal(t, int64(3600), s.ExpiresIn)

	ident, err := p.GetUser(ctx, s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, ident.UserID)
	assert.Equal(t, "owner@example.com", ident.Email)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()
	_, err := p.CreateUser(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	_, err = p.CreateUser(ctx, "A@example.com", "other-pass")
	assert.True(t, errors.Is(err, apperror.ErrEmailTaken))
}

func TestSignInBadCredentials(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()
	_, err := p.CreateUser(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "a@example.com", "wrong")
	assert.True(t, errors.Is(err, apperror.ErrInvalidCreds))

	_, err = p.SignIn(ctx, "nobody@example.com", "secret123")
	assert.True(t, errors.Is(err, apperror.ErrInvalidCreds))
}

func TestGetUserRejectsRefreshTokenAndExpired(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()
	_, err := p.CreateUser(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	s, err := p.SignIn(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	_, err = p.GetUser(ctx, s.RefreshToken)
	assert.Error(t, err)

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = p.GetUser(ctx, s.AccessToken)
	assert.Error(t, err)

	_, err = p.GetUser(ctx, "garbage")
	assert.Error(t, err)
}

func TestGetUserAfterDelete(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()
	u, err := p.CreateUser(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	s, err := p.SignIn(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, p.DeleteUser(ctx, u.ID))
	_, err = p.GetUser(ctx, s.AccessToken)
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()
	_, err := p.CreateUser(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	s, err := p.SignIn(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	fresh, err := p.Refresh(ctx, s.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, s.AccessToken, fresh.AccessToken)

	_, err = p.Refresh(ctx, s.AccessToken)
	assert.True(t, errors.Is(err, apperror.ErrInvalidToken))
}

func TestParseRejectsOtherSecret(t *testing.T) {
	p, users := newTestProvider()
	ctx := context.Background()
	_, err := p.CreateUser(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	other := NewLocalProvider(users, Config{Secret: "other", AccessTTL: time.Hour, RefreshTTL: time.Hour, BcryptCost: bcrypt.MinCost})
	s, err := other.SignIn(ctx, "a@example.com", "secret123")
	require.NoError(t, err)

	_, err = p.GetUser(ctx, s.AccessToken)
	assert.Error(t, err)
}
