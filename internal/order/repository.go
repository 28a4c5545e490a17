package order

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/order/dto"
)

type Repository interface {
	// CreateWithItems inserts the header and its items in one transaction.
	CreateWithItems(ctx context.Context, order *model.Order, items []model.OrderItem) error
	FindByID(ctx context.Context, companyID, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	Update(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, companyID, id string) (bool, error)
}
