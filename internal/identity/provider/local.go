package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/identity"
	"github.com/fekuna/orderflow-service/internal/model"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

// LocalProvider keeps accounts in the users table and issues HS256 tokens.
type LocalProvider struct {
	users identity.UserRepository
	cfg   Config
	now   func() time.Time
}

type claims struct {
	Email string `json:"email"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

func NewLocalProvider(users identity.UserRepository, cfg Config) *LocalProvider {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &LocalProvider{users: users, cfg: cfg, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) CreateUser(ctx context.Context, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := p.now()
	u := &model.User{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (p *LocalProvider) DeleteUser(ctx context.Context, userID string) error {
	return p.users.Delete(ctx, userID)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	u, err := p.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCreds
	}
	return p.issue(u)
}

func (p *LocalProvider) Refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	c, err := p.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	u, err := p.users.FindByID(ctx, c.Subject)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.ErrInvalidToken
	}
	return p.issue(u)
}

// GetUser validates an access token and confirms the account still exists.
func (p *LocalProvider) GetUser(ctx context.Context, accessToken string) (*auth.Identity, error) {
	c, err := p.parse(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	u, err := p.users.FindByID(ctx, c.Subject)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("user no longer exists")
	}
	return &auth.Identity{UserID: u.ID, Email: u.Email}, nil
}

func (p *LocalProvider) issue(u *model.User) (*identity.Session, error) {
	access, err := p.sign(u, tokenTypeAccess, p.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := p.sign(u, tokenTypeRefresh, p.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &identity.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(p.cfg.AccessTTL.Seconds()),
		User:         u,
	}, nil
}

func (p *LocalProvider) sign(u *model.User, typ string, ttl time.Duration) (string, error) {
	now := p.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: u.Email,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString([]byte(p.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (p *LocalProvider) parse(raw, typ string) (*claims, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(raw, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(p.cfg.Secret), nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || c.Type != typ || c.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return c, nil
}
