package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type Dashboard struct {
	OrdersSummary    OrdersSummary   `json:"orders_summary"`
	SalesSummary     SalesSummary    `json:"sales_summary"`
	LowStockAlerts   []LowStockAlert `json:"low_stock_alerts"`
	RecentActivities []Activity      `json:"recent_activities"`
}

type OrdersSummary struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

type SalesSummary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	GrowthRate        decimal.Decimal `json:"growth_rate"`
}

type LowStockAlert struct {
	ID            string          `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	CurrentStock  decimal.Decimal `db:"current_stock" json:"current_stock"`
	MinStockLevel decimal.Decimal `db:"min_stock_level" json:"min_stock_level"`
	Type          string          `db:"type" json:"type"`
}

const (
	ActivityOrder         = "order"
	ActivityStockMovement = "stock_movement"
)

type Activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// RecentOrder and RecentMovement are the raw rows behind the activity feed.
type RecentOrder struct {
	ID           string    `db:"id"`
	OrderNumber  string    `db:"order_number"`
	Status       string    `db:"status"`
	CustomerName *string   `db:"customer_name"`
	CreatedAt    time.Time `db:"created_at"`
}

type RecentMovement struct {
	ID            string          `db:"id"`
	Type          string          `db:"type"`
	Quantity      decimal.Decimal `db:"quantity"`
	Reason        *string         `db:"reason"`
	InventoryName *string         `db:"inventory_name"`
	CreatedAt     time.Time       `db:"created_at"`
}
