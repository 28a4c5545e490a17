package inventory

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/inventory/dto"
	"github.com/fekuna/orderflow-service/internal/model"
)

type Repository interface {
	// Inventory rows
	Create(ctx context.Context, inv *model.Inventory) error
	FindByID(ctx context.Context, companyID, id string) (*model.Inventory, error)
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error)
	FindActiveByProducts(ctx context.Context, companyID string, productIDs []string) ([]model.Inventory, error)
	Update(ctx context.Context, inv *model.Inventory) error

	// Movements. ApplyMovement locks the row, checks and writes the movement and the
	// new counter in one transaction; false means the inventory row does not exist.
	ApplyMovement(ctx context.Context, movement *model.StockMovement) (bool, error)
	FindMovementByID(ctx context.Context, companyID, id string) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	HasOrderMovement(ctx context.Context, companyID, inventoryID, orderID string, movementType model.MovementType) (bool, error)
}
