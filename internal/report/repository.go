package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fekuna/orderflow-service/internal/report/dto"
)

type Repository interface {
	OrderStatusCounts(ctx context.Context, companyID string, since time.Time) (map[string]int, error)
	// Revenue sums completed and delivered orders created in [from, to).
	Revenue(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, int, error)
	LowStock(ctx context.Context, companyID string) ([]dto.LowStockAlert, error)
	RecentOrders(ctx context.Context, companyID string, limit int) ([]dto.RecentOrder, error)
	RecentMovements(ctx context.Context, companyID string, limit int) ([]dto.RecentMovement, error)
}
