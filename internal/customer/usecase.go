package customer

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/customer/dto"
	"github.com/fekuna/orderflow-service/internal/model"
)

type UseCase interface {
	CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
	UpdateCustomer(ctx context.Context, id string, input *dto.UpdateCustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}
