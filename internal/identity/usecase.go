package identity

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/identity/dto"
)

type UseCase interface {
	Signup(ctx context.Context, input *dto.SignupInput) (*dto.SignupResult, error)
	Login(ctx context.Context, input *dto.LoginInput) (*dto.LoginResult, error)
	Refresh(ctx context.Context, input *dto.RefreshInput) (*dto.LoginResult, error)
}
