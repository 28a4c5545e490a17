package order

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/order/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	UpdateOrder(ctx context.Context, id string, input *dto.UpdateOrderInput) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
