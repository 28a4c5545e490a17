package company

import (
	"context"

	"github.com/fekuna/orderflow-service/internal/company/dto"
	"github.com/fekuna/orderflow-service/internal/model"
)

type UseCase interface {
	CreateCompany(ctx context.Context, userID string, input *dto.CompanyInput) (*model.Company, error)
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	GetCompanyByUser(ctx context.Context, userID string) (*model.Company, error)
	UpdateCompany(ctx context.Context, id string, input *dto.UpdateCompanyInput) (*model.Company, error)
}
