package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/company"
	"github.com/fekuna/orderflow-service/internal/company/dto"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/validation"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type companyUseCase struct {
	repo   company.Repository
	logger logger.ZapLogger
}

func NewCompanyUseCase(repo company.Repository, log logger.ZapLogger) company.UseCase {
	return &companyUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *companyUseCase) CreateCompany(ctx context.Context, userID string, input *dto.CompanyInput) (*model.Company, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &model.Company{
		BaseModel:           model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:              userID,
		Name:                input.Name,
		Email:               input.Email,
		Phone:               input.Phone,
		Address:             input.Address,
		BusinessType:        input.BusinessType,
		InventoryManagement: *input.InventoryManagement,
		InventoryType:       input.InventoryType,
		Currency:            input.Currency,
		Timezone:            input.Timezone,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *companyUseCase) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	user, _ := auth.FromContext(ctx)
	c, err := uc.repo.FindByIDForUser(ctx, id, user.UserID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("Company")
	}
	return c, nil
}

func (uc *companyUseCase) GetCompanyByUser(ctx context.Context, userID string) (*model.Company, error) {
	return uc.repo.FindByUserID(ctx, userID)
}

func (uc *companyUseCase) UpdateCompany(ctx context.Context, id string, input *dto.UpdateCompanyInput) (*model.Company, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	c, err := uc.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Apply(c)
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		uc.logger.Error("failed to update company", zap.String("company_id", id), zap.Error(err))
		return nil, err
	}
	return c, nil
}
