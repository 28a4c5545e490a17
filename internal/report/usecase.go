package report

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/report/dto"
)

type UseCase interface {
	Dashboard(ctx context.Context, period string) (*dto.Dashboard, error)
}
