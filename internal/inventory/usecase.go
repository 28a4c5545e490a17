package inventory

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/events"
	"github.com/fekuna/orderflow-service/internal/inventory/dto"
	"github.com/fekuna/orderflow-service/internal/model"
)

type UseCase interface {
	CreateInventory(ctx context.Context, input *dto.CreateInventoryInput) (*model.Inventory, error)
	GetInventory(ctx context.Context, id string) (*model.Inventory, error)
	ListInventory(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error)
	UpdateInventory(ctx context.Context, id string, input *dto.UpdateInventoryInput) (*model.Inventory, error)

	RecordMovement(ctx context.Context, inventoryID string, input *dto.MovementInput) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	// DeductForOrder records an out movement on every active row linked to an ordered product.
	DeductForOrder(ctx context.Context, companyID string, order events.OrderPayload) error
}
