package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/report"
	"github.com/fekuna/orderflow-service/internal/report/dto"
	"github.com/fekuna/orderflow-service/pkg/i18n"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

const (
	recentPerSource = 5
	maxActivities   = 10
)

type reportUseCase struct {
	repo   report.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewReportUseCase(repo report.Repository, log logger.ZapLogger) report.UseCase {
	return &reportUseCase{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// PeriodStart returns the beginning of the reporting window ending at now.
// Unknown periods fall back to one month.
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7)
	case "quarter":
		return now.AddDate(0, -3, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

func (uc *reportUseCase) Dashboard(ctx context.Context, period string) (*dto.Dashboard, error) {
	companyID := auth.GetCompanyID(ctx)
	now := uc.now()
	start := PeriodStart(period, now)
	previousStart := start.Add(-now.Sub(start))

	byStatus, err := uc.repo.OrderStatusCounts(ctx, companyID, start)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, n := range byStatus {
		total += n
	}

	revenue, count, err := uc.repo.Revenue(ctx, companyID, start, now)
	if err != nil {
		return nil, err
	}
	previousRevenue, _, err := uc.repo.Revenue(ctx, companyID, previousStart, start)
	if err != nil {
		return nil, err
	}

	lowStock, err := uc.repo.LowStock(ctx, companyID)
	if err != nil {
		return nil, err
	}

	activities, err := uc.recentActivities(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &dto.Dashboard{
		OrdersSummary:    dto.OrdersSummary{Total: total, ByStatus: byStatus},
		SalesSummary:     salesSummary(revenue, count, previousRevenue),
		LowStockAlerts:   lowStock,
		RecentActivities: activities,
	}, nil
}

func salesSummary(revenue decimal.Decimal, count int, previous decimal.Decimal) dto.SalesSummary {
	s := dto.SalesSummary{TotalRevenue: revenue, AverageOrderValue: decimal.Zero, GrowthRate: decimal.Zero}
	if count > 0 {
		s.AverageOrderValue = revenue.Div(decimal.NewFromInt(int64(count))).Round(2)
	}
	if previous.IsPositive() {
		s.GrowthRate = revenue.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return s
}

func (uc *reportUseCase) recentActivities(ctx context.Context, companyID string) ([]dto.Activity, error) {
	orders, err := uc.repo.RecentOrders(ctx, companyID, recentPerSource)
	if err != nil {
		return nil, err
	}
	movements, err := uc.repo.RecentMovements(ctx, companyID, recentPerSource)
	if err != nil {
		return nil, err
	}

	activities := make([]dto.Activity, 0, len(orders)+len(movements))
	for _, o := range orders {
		data := map[string]interface{}{"Number": o.OrderNumber, "Customer": deref(o.CustomerName), "Status": o.Status}
		activities = append(activities, dto.Activity{
			Type:        dto.ActivityOrder,
			Description: i18n.Localize(ctx, "activity.order", data, "Order {{.Number}} ({{.Customer}}) - {{.Status}}"),
			Timestamp:   o.CreatedAt,
		})
	}
	for _, m := range movements {
		data := map[string]interface{}{"Name": deref(m.InventoryName), "Quantity": m.Quantity.String()}
		activities = append(activities, dto.Activity{
			Type:        dto.ActivityStockMovement,
			Description: i18n.Localize(ctx, "activity.movement."+m.Type, data, "Stock movement: {{.Name}} ({{.Quantity}})"),
			Timestamp:   m.CreatedAt,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > maxActivities {
		activities = activities[:maxActivities]
	}
	return activities, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
