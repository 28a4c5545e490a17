package product

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, companyID, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, companyID string, ids []string) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, companyID, id string) (bool, error)
}
