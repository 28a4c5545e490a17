package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/customer"
	"github.com/fekuna/orderflow-service/internal/customer/dto"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/validation"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type customerUseCase struct {
	repo   customer.Repository
	logger logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &model.Customer{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CompanyID:  auth.GetCompanyID(ctx),
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Address:    input.Address,
		City:       input.City,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		Notes:      input.Notes,
		IsActive:   *input.IsActive,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) findCustomer(ctx context.Context, id string) (*model.Customer, error) {
	c, err := uc.repo.FindByID(ctx, auth.GetCompanyID(ctx), id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("Customer")
	}
	return c, nil
}

// GetCustomer returns the customer with its order history.
func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	c, err := uc.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := uc.repo.FindOrders(ctx, c.CompanyID, c.ID)
	if err != nil {
		return nil, err
	}
	c.Orders = orders
	return c, nil
}

func (uc *customerUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	filters.CompanyID = auth.GetCompanyID(ctx)
	return uc.repo.FindAll(ctx, filters)
}

func (uc *customerUseCase) UpdateCustomer(ctx context.Context, id string, input *dto.UpdateCustomerInput) (*model.Customer, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	c, err := uc.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Apply(c)
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		uc.logger.Error("failed to update customer", zap.String("customer_id", id), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	companyID := auth.GetCompanyID(ctx)

	n, err := uc.repo.CountOrders(ctx, companyID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.ErrCustomerHasOrders
	}

	deleted, err := uc.repo.Delete(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("Customer")
	}
	return nil
}
