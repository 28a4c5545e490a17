package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fekuna/orderflow-service/internal/report/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) OrderStatusCounts(ctx context.Context, companyID string, since time.Time) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	query := `
        SELECT status, count(*) AS count
        FROM orders
        WHERE company_id = $1 AND created_at >= $2
        GROUP BY status
    `
	if err := r.DB.SelectContext(ctx, &rows, query, companyID, since); err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *PGRepository) Revenue(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, int, error) {
	var row struct {
		Total decimal.Decimal `db:"total"`
		Count int             `db:"count"`
	}
	query := `
        SELECT COALESCE(SUM(total), 0) AS total, count(*) AS count
        FROM orders
        WHERE company_id = $1
          AND status IN ('completed', 'delivered')
          AND created_at >= $2 AND created_at < $3
    `
	if err := r.DB.GetContext(ctx, &row, query, companyID, from, to); err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return row.Total, row.Count, nil
}

func (r *PGRepository) LowStock(ctx context.Context, companyID string) ([]dto.LowStockAlert, error) {
	alerts := []dto.LowStockAlert{}
	query := `
        SELECT id, name, current_stock, min_stock_level, type
        FROM inventory
        WHERE company_id = $1 AND is_active AND current_stock < min_stock_level
        ORDER BY name
    `
	if err := r.DB.SelectContext(ctx, &alerts, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to get low stock alerts: %w", err)
	}
	return alerts, nil
}

func (r *PGRepository) RecentOrders(ctx context.Context, companyID string, limit int) ([]dto.RecentOrder, error) {
	var orders []dto.RecentOrder
	query := `
        SELECT o.id, o.order_number, o.status, c.name AS customer_name, o.created_at
        FROM orders o
        LEFT JOIN customers c ON c.id = o.customer_id
        WHERE o.company_id = $1
        ORDER BY o.created_at DESC
        LIMIT $2
    `
	if err := r.DB.SelectContext(ctx, &orders, query, companyID, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent orders: %w", err)
	}
	return orders, nil
}

func (r *PGRepository) RecentMovements(ctx context.Context, companyID string, limit int) ([]dto.RecentMovement, error) {
	var movements []dto.RecentMovement
	query := `
        SELECT m.id, m.type, m.quantity, m.reason, i.name AS inventory_name, m.created_at
        FROM stock_movements m
        LEFT JOIN inventory i ON i.id = m.inventory_id
        WHERE m.company_id = $1
        ORDER BY m.created_at DESC
        LIMIT $2
    `
	if err := r.DB.SelectContext(ctx, &movements, query, companyID, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent movements: %w", err)
	}
	return movements, nil
}
