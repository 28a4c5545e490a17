package identity

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/model"
)

// Session is the token pair returned by a successful sign-in.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         *model.User
}

// Provider is the identity service contract. It owns user accounts and tokens;
// companies live in the application database and are linked by user id.
type Provider interface {
	CreateUser(ctx context.Context, email, password string) (*model.User, error)
	DeleteUser(ctx context.Context, userID string) error
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	GetUser(ctx context.Context, accessToken string) (*auth.Identity, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Delete(ctx context.Context, id string) error
}
