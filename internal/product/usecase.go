package product

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, id string, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
