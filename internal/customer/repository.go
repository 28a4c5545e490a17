package customer

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/customer/dto"
	"github.com/fekuna/orderflow-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, companyID, id string) (*model.Customer, error)
	FindAll(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
	FindOrders(ctx context.Context, companyID, customerID string) ([]model.CustomerOrder, error)
	CountOrders(ctx context.Context, companyID, customerID string) (int, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, companyID, id string) (bool, error)
}
