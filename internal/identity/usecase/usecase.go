package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/company"
	"github.com/fekuna/orderflow-service/internal/identity"
	"github.com/fekuna/orderflow-service/internal/identity/dto"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/validation"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type identityUseCase struct {
	provider  identity.Provider
	companies company.UseCase
	logger    logger.ZapLogger
}

func NewIdentityUseCase(provider identity.Provider, companies company.UseCase, log logger.ZapLogger) identity.UseCase {
	return &identityUseCase{
		provider:  provider,
		companies: companies,
		logger:    log,
	}
}

// Signup creates the account then its company. The identity provider cannot
// join the company insert transaction, so a failed insert deletes the account again.
func (uc *identityUseCase) Signup(ctx context.Context, input *dto.SignupInput) (*dto.SignupResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	companyInput := input.Company()
	if err := validation.Struct(companyInput); err != nil {
		return nil, err
	}

	user, err := uc.provider.CreateUser(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	c, err := uc.companies.CreateCompany(ctx, user.ID, companyInput)
	if err != nil {
		uc.logger.Error("company creation failed, removing user", zap.String("user_id", user.ID), zap.Error(err))
		if delErr := uc.provider.DeleteUser(ctx, user.ID); delErr != nil {
			uc.logger.Error("failed to remove user after signup failure", zap.String("user_id", user.ID), zap.Error(delErr))
		}
		return nil, err
	}

	uc.logger.Info("company signed up", zap.String("user_id", user.ID), zap.String("company_id", c.ID))
	return &dto.SignupResult{
		User: dto.UserSummary{ID: user.ID, Email: user.Email},
		Company: dto.CompanySummary{
			ID:           c.ID,
			Name:         c.Name,
			BusinessType: c.BusinessType,
		},
	}, nil
}

func (uc *identityUseCase) Login(ctx context.Context, input *dto.LoginInput) (*dto.LoginResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	session, err := uc.provider.SignIn(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	return uc.sessionResult(ctx, session)
}

func (uc *identityUseCase) Refresh(ctx context.Context, input *dto.RefreshInput) (*dto.LoginResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	session, err := uc.provider.Refresh(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	return uc.sessionResult(ctx, session)
}

func (uc *identityUseCase) sessionResult(ctx context.Context, s *identity.Session) (*dto.LoginResult, error) {
	c, err := uc.companies.GetCompanyByUser(ctx, s.User.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.ErrNoCompany
	}
	return &dto.LoginResult{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		User:         dto.UserSummary{ID: s.User.ID, Email: s.User.Email},
		Company:      companySummary(c),
	}, nil
}

func companySummary(c *model.Company) dto.CompanySummary {
	im := c.InventoryManagement
	return dto.CompanySummary{
		ID:                  c.ID,
		Name:                c.Name,
		BusinessType:        c.BusinessType,
		InventoryManagement: &im,
	}
}
