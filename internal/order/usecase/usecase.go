package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/events"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/order"
	"github.com/fekuna/orderflow-service/internal/order/dto"
	"github.com/fekuna/orderflow-service/internal/validation"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

const (
	orderNumberConstraint = "orders_company_number_key"
	maxCreateAttempts     = 3
)

// CustomerFinder is satisfied by customer.Repository.
type CustomerFinder interface {
	FindByID(ctx context.Context, companyID, id string) (*model.Customer, error)
}

// ProductFinder is satisfied by product.Repository.
type ProductFinder interface {
	FindByIDs(ctx context.Context, companyID string, ids []string) ([]model.Product, error)
}

type orderUseCase struct {
	repo      order.Repository
	customers CustomerFinder
	products  ProductFinder
	publisher events.Publisher
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewOrderUseCase(repo order.Repository, customers CustomerFinder, products ProductFinder, publisher events.Publisher, log logger.ZapLogger) order.UseCase {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &orderUseCase{
		repo:      repo,
		customers: customers,
		products:  products,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	companyID := auth.GetCompanyID(ctx)

	customer, err := uc.customers.FindByID(ctx, companyID, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NotFound("Customer")
	}

	productIDs := input.ProductIDs()
	products, err := uc.products.FindByIDs(ctx, companyID, productIDs)
	if err != nil {
		return nil, err
	}
	if len(products) != len(productIDs) {
		return nil, apperror.NotFound("Product")
	}

	now := uc.now()
	o := &model.Order{
		BaseModel:           model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CompanyID:           companyID,
		CustomerID:          customer.ID,
		Status:              model.OrderStatusDraft,
		OrderDate:           now,
		DueDate:             dto.ParseOptionalDate(input.DueDate),
		DeliveryDate:        dto.ParseOptionalDate(input.DeliveryDate),
		DeliveryAddress:     input.DeliveryAddress,
		DeliveryMethod:      input.DeliveryMethod,
		Discount:            input.Discount,
		TaxRate:             input.TaxRate,
		Notes:               input.Notes,
		SpecialInstructions: input.SpecialInstructions,
	}
	if t := dto.ParseOptionalDate(input.OrderDate); t != nil {
		o.OrderDate = *t
	}

	items := make([]model.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, model.OrderItem{
			ID:             uuid.New().String(),
			OrderID:        o.ID,
			ProductID:      in.ProductID,
			Quantity:       in.Quantity,
			UnitPrice:      *in.UnitPrice,
			Discount:       in.Discount,
			LineTotal:      model.LineTotal(*in.UnitPrice, in.Quantity, in.Discount),
			Customizations: types.JSONText(in.Customizations),
			Notes:          in.Notes,
			CreatedAt:      now,
		})
	}

	for attempt := 1; ; attempt++ {
		o.OrderNumber = model.NewOrderNumber(uc.now())
		err = uc.repo.CreateWithItems(ctx, o, items)
		if err == nil {
			break
		}
		if !apperror.IsUniqueViolation(err, orderNumberConstraint) || attempt == maxCreateAttempts {
			uc.logger.Error("failed to create order",
				zap.String("company_id", companyID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return nil, err
		}
		uc.logger.Warn("order number collision, retrying", zap.String("order_number", o.OrderNumber))
	}

	created, err := uc.GetOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, events.TypeOrderCreated, created, "")
	return created, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, auth.GetCompanyID(ctx), id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound("Order")
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	filters.CompanyID = auth.GetCompanyID(ctx)
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) UpdateOrder(ctx context.Context, id string, input *dto.UpdateOrderInput) (*model.Order, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CustomerID != nil && *input.CustomerID != o.CustomerID {
		customer, err := uc.customers.FindByID(ctx, o.CompanyID, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NotFound("Customer")
		}
	}

	previous := o.Status
	if input.Status != nil {
		next := model.OrderStatus(*input.Status)
		if !previous.CanTransitionTo(next) {
			return nil, apperror.InvalidTransition(string(previous), string(next))
		}
		o.Status = next
	}
	input.Apply(o)
	o.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, o); err != nil {
		uc.logger.Error("failed to update order", zap.String("order_id", id), zap.Error(err))
		return nil, err
	}

	updated, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated.Status != previous {
		uc.publish(ctx, events.TypeOrderStatusChanged, updated, previous)
	}
	return updated, nil
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, id string) error {
	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if !o.Status.Deletable() {
		return apperror.ErrOrderNotDeletable
	}

	deleted, err := uc.repo.Delete(ctx, o.CompanyID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("Order")
	}
	return nil
}

func (uc *orderUseCase) publish(ctx context.Context, eventType string, o *model.Order, previous model.OrderStatus) {
	payload := events.OrderPayload{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		Status:         string(o.Status),
		PreviousStatus: string(previous),
		Total:          o.Total,
		Items:          make([]events.OrderItemPayload, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, events.OrderItemPayload{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	events.Publish(ctx, uc.publisher, uc.logger, eventType, o.CompanyID, o.ID, payload)
}
