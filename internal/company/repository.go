package company

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, company *model.Company) error
	FindByIDForUser(ctx context.Context, id, userID string) (*model.Company, error)
	FindByUserID(ctx context.Context, userID string) (*model.Company, error)
	Update(ctx context.Context, company *model.Company) error
	CompanyIDForUser(ctx context.Context, userID string) (string, error)
}
