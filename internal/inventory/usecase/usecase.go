package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/events"
	"github.com/fekuna/orderflow-service/internal/inventory"
	"github.com/fekuna/orderflow-service/internal/inventory/dto"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/validation"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
)

// Locker is the subset of cache.RedisClient used to serialize movements per inventory row.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type inventoryUseCase struct {
	repo      inventory.Repository
	locker    Locker
	publisher events.Publisher
	logger    logger.ZapLogger
}

// NewInventoryUseCase wires the inventory use case. locker may be nil.
func NewInventoryUseCase(repo inventory.Repository, locker Locker, publisher events.Publisher, log logger.ZapLogger) inventory.UseCase {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &inventoryUseCase{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *inventoryUseCase) CreateInventory(ctx context.Context, input *dto.CreateInventoryInput) (*model.Inventory, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &model.Inventory{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CompanyID:     auth.GetCompanyID(ctx),
		ProductID:     input.ProductID,
		Name:          input.Name,
		Type:          input.Type,
		Unit:          input.Unit,
		CurrentStock:  input.CurrentStock,
		MinStockLevel: input.MinStockLevel,
		MaxStockLevel: input.MaxStockLevel,
		CostPerUnit:   input.CostPerUnit,
		Supplier:      input.Supplier,
		Location:      input.Location,
		IsActive:      *input.IsActive,
	}
	if err := uc.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (uc *inventoryUseCase) GetInventory(ctx context.Context, id string) (*model.Inventory, error) {
	inv, err := uc.repo.FindByID(ctx, auth.GetCompanyID(ctx), id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NotFound("Inventory")
	}
	return inv, nil
}

func (uc *inventoryUseCase) ListInventory(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error) {
	filters.CompanyID = auth.GetCompanyID(ctx)
	return uc.repo.FindAll(ctx, filters)
}

func (uc *inventoryUseCase) UpdateInventory(ctx context.Context, id string, input *dto.UpdateInventoryInput) (*model.Inventory, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	inv, err := uc.GetInventory(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Apply(inv)
	inv.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, inv); err != nil {
		uc.logger.Error("failed to update inventory", zap.String("inventory_id", id), zap.Error(err))
		return nil, err
	}
	return uc.GetInventory(ctx, id)
}

func (uc *inventoryUseCase) RecordMovement(ctx context.Context, inventoryID string, input *dto.MovementInput) (*model.StockMovement, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	return uc.recordMovement(ctx, auth.GetCompanyID(ctx), inventoryID, input)
}

func (uc *inventoryUseCase) recordMovement(ctx context.Context, companyID, inventoryID string, input *dto.MovementInput) (*model.StockMovement, error) {
	release, err := uc.lock(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	defer release()

	return uc.applyMovement(ctx, companyID, inventoryID, input)
}

// applyMovement expects the caller to hold the row lock when a locker is configured.
func (uc *inventoryUseCase) applyMovement(ctx context.Context, companyID, inventoryID string, input *dto.MovementInput) (*model.StockMovement, error) {
	m := &model.StockMovement{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		InventoryID: inventoryID,
		OrderID:     input.OrderID,
		Type:        model.MovementType(input.Type),
		Quantity:    *input.Quantity,
		UnitCost:    input.UnitCost,
		Reference:   input.Reference,
		Reason:      input.Reason,
		Notes:       input.Notes,
		CreatedAt:   time.Now(),
	}

	found, err := uc.repo.ApplyMovement(ctx, m)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound("Inventory")
	}

	events.Publish(ctx, uc.publisher, uc.logger, events.TypeStockMovementRecorded, companyID, inventoryID, events.StockMovementPayload{
		MovementID:     m.ID,
		InventoryID:    m.InventoryID,
		OrderID:        m.OrderID,
		Type:           string(m.Type),
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
	})

	created, err := uc.repo.FindMovementByID(ctx, companyID, m.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return m, nil
	}
	return created, nil
}

// lock takes the per-row Redis lock when a locker is configured.
func (uc *inventoryUseCase) lock(ctx context.Context, inventoryID string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}

	key := fmt.Sprintf("lock:inventory:%s", inventoryID)
	value := uuid.New().String()

	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire inventory lock", zap.String("inventory_id", inventoryID), zap.Error(err))
		}
		if ok {
			return func() {
				if err := uc.locker.ReleaseLock(context.WithoutCancel(ctx), key, value); err != nil {
					uc.logger.Warn("failed to release inventory lock", zap.String("inventory_id", inventoryID), zap.Error(err))
				}
			}, nil
		}
		time.Sleep(lockBackoff)
	}
	return nil, apperror.ErrSystemBusy
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	companyID := auth.GetCompanyID(ctx)
	inv, err := uc.repo.FindByID(ctx, companyID, filters.InventoryID)
	if err != nil {
		return nil, 0, err
	}
	if inv == nil {
		return nil, 0, apperror.NotFound("Inventory")
	}
	filters.CompanyID = companyID
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *inventoryUseCase) DeductForOrder(ctx context.Context, companyID string, order events.OrderPayload) error {
	quantities := make(map[string]int, len(order.Items))
	productIDs := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		if _, ok := quantities[it.ProductID]; !ok {
			productIDs = append(productIDs, it.ProductID)
		}
		quantities[it.ProductID] += it.Quantity
	}

	rows, err := uc.repo.FindActiveByProducts(ctx, companyID, productIDs)
	if err != nil {
		return err
	}

	reason := "Order confirmed: " + order.OrderNumber
	orderID := order.ID
	var firstErr error
	for _, inv := range rows {
		if inv.ProductID == nil {
			continue
		}
		qty := quantities[*inv.ProductID]
		if qty <= 0 {
			continue
		}

		quantity := decimal.NewFromInt(int64(qty))
		err := uc.deductOnce(ctx, companyID, inv.ID, &dto.MovementInput{
			Type:     string(model.MovementOut),
			Quantity: &quantity,
			OrderID:  &orderID,
			Reason:   &reason,
		})
		if err != nil {
			uc.logger.Error("failed to deduct stock for order",
				zap.String("order_id", order.ID),
				zap.String("inventory_id", inv.ID),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// deductOnce records an order deduction unless the row already has one for that order.
func (uc *inventoryUseCase) deductOnce(ctx context.Context, companyID, inventoryID string, input *dto.MovementInput) error {
	release, err := uc.lock(ctx, inventoryID)
	if err != nil {
		return err
	}
	defer release()

	done, err := uc.repo.HasOrderMovement(ctx, companyID, inventoryID, *input.OrderID, model.MovementType(input.Type))
	if err != nil {
		return err
	}
	if done {
		uc.logger.Info("order deduction already recorded",
			zap.String("order_id", *input.OrderID),
			zap.String("inventory_id", inventoryID),
		)
		return nil
	}

	_, err = uc.applyMovement(ctx, companyID, inventoryID, input)
	return err
}
