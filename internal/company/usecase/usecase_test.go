package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/company/dto"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type fakeRepo struct {
	companies map[string]*model.Company
	updated   *model.Company
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{companies: map[string]*model.Company{}}
}

func (f *fakeRepo) Create(_ context.Context, c *model.Company) error {
	f.companies[c.ID] = c
	return nil
}

func (f *fakeRepo) FindByIDForUser(_ context.Context, id, userID string) (*model.Company, error) {
	c, ok := f.companies[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) FindByUserID(_ context.Context, userID string) (*model.Company, error) {
	for _, c := range f.companies {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Update(_ context.Context, c *model.Company) error {
	f.updated = c
	f.companies[c.ID] = c
	return nil
}

func (f *fakeRepo) CompanyIDForUser(_ context.Context, userID string) (string, error) {
	c, _ := f.FindByUserID(context.Background(), userID)
	if c == nil {
		return "", nil
	}
	return c.ID, nil
}

func TestCreateCompanyAppliesDefaults(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCompanyUseCase(repo, logger.NewNop())

	c, err := uc.CreateCompany(context.Background(), "u-1", &dto.CompanyInput{Name: "Test Company"})
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "u-1", c.UserID)
	assert.Equal(t, model.BusinessTypeCustomOrders, c.BusinessType)
	assert.Equal(t, model.InventoryTypeFinishedProducts, c.InventoryType)
	assert.False(t, c.InventoryManagement)
	assert.Equal(t, "EUR", c.Currency)
	assert.Equal(t, "Europe/Paris", c.Timezone)
	assert.Contains(t, repo.companies, c.ID)
}

func TestCreateCompanyRejectsInvalidPayload(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCompanyUseCase(repo, logger.NewNop())

	_, err := uc.CreateCompany(context.Background(), "u-1", &dto.CompanyInput{BusinessType: "retail"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.As(err).Kind)
	assert.Contains(t, err.Error(), "name: Required")
	assert.Contains(t, err.Error(), "business_type")
	assert.Empty(t, repo.companies)
}

func TestGetCompanyScopedToCaller(t *testing.T) {
	repo := newFakeRepo()
	repo.companies["c-1"] = &model.Company{BaseModel: model.BaseModel{ID: "c-1"}, UserID: "u-1", Name: "Bakery"}
	uc := NewCompanyUseCase(repo, logger.NewNop())

	owner := auth.WithUser(context.Background(), auth.UserContext{UserID: "u-1", CompanyID: "c-1"})
	c, err := uc.GetCompany(owner, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Bakery", c.Name)

	stranger := auth.WithUser(context.Background(), auth.UserContext{UserID: "u-2", CompanyID: "c-2"})
	_, err = uc.GetCompany(stranger, "c-1")
	assert.Equal(t, apperror.KindNotFound, apperror.As(err).Kind)
}

func TestUpdateCompanyPartial(t *testing.T) {
	repo := newFakeRepo()
	repo.companies["c-1"] = &model.Company{
		BaseModel: model.BaseModel{ID: "c-1"}, UserID: "u-1", Name: "Bakery",
		BusinessType: model.BusinessTypeCustomOrders, Currency: "EUR",
	}
	uc := NewCompanyUseCase(repo, logger.NewNop())
	ctx := auth.WithUser(context.Background(), auth.UserContext{UserID: "u-1", CompanyID: "c-1"})

	wholesale := model.BusinessTypeWholesale
	c, err := uc.UpdateCompany(ctx, "c-1", &dto.UpdateCompanyInput{BusinessType: &wholesale})
	require.NoError(t, err)
	assert.Equal(t, "Bakery", c.Name)
	assert.Equal(t, model.BusinessTypeWholesale, c.BusinessType)
	assert.Equal(t, "EUR", c.Currency)
	require.NotNil(t, repo.updated)

	bad := "retail"
	_, err = uc.UpdateCompany(ctx, "c-1", &dto.UpdateCompanyInput{BusinessType: &bad})
	assert.Equal(t, apperror.KindValidation, apperror.As(err).Kind)
}
