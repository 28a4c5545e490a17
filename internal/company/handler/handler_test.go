package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/orderflow-service/internal/auth"
	"github.com/fekuna/orderflow-service/internal/company/usecase"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

const (
	ownCompany   = "9d1f3b5a-7c2e-4a8b-b6d4-2e0f1a3c5b7d"
	otherCompany = "1a3c5e7f-9b2d-4f6a-8c0e-3b5d7f9a1c2e"
)

type memRepo struct {
	companies map[string]*model.Company
}

func (m *memRepo) Create(_ context.Context, c *model.Company) error {
	m.companies[c.ID] = c
	return nil
}

func (m *memRepo) FindByIDForUser(_ context.Context, id, userID string) (*model.Company, error) {
	c, ok := m.companies[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) FindByUserID(_ context.Context, userID string) (*model.Company, error) {
	for _, c := range m.companies {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Update(_ context.Context, c *model.Company) error {
	cp := *c
	m.companies[c.ID] = &cp
	return nil
}

func (m *memRepo) CompanyIDForUser(_ context.Context, userID string) (string, error) {
	c, _ := m.FindByUserID(context.Background(), userID)
	if c == nil {
		return "", nil
	}
	return c.ID, nil
}

func newRepo() *memRepo {
	return &memRepo{companies: map[string]*model.Company{
		ownCompany:   {BaseModel: model.BaseModel{ID: ownCompany}, UserID: "u-1", Name: "Boulangerie Martin", Currency: "EUR"},
		otherCompany: {BaseModel: model.BaseModel{ID: otherCompany}, UserID: "u-2", Name: "Pâtisserie Dupont", Currency: "EUR"},
	}}
}

func serve(repo *memRepo, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithUser(req.Context(), auth.UserContext{UserID: "u-1", CompanyID: ownCompany})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	NewCompanyHandler(usecase.NewCompanyUseCase(repo, logger.NewNop()), logger.NewNop()).Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestGetCompany(t *testing.T) {
	rec := serve(newRepo(), http.MethodGet, "/companies/"+ownCompany, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Boulangerie Martin"`)

	rec = serve(newRepo(), http.MethodGet, "/companies/"+otherCompany, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Company not found"}`, rec.Body.String())

	rec = serve(newRepo(), http.MethodGet, "/companies/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCompany(t *testing.T) {
	repo := newRepo()

	rec := serve(repo, http.MethodPut, "/companies/"+ownCompany, `{"currency":"CHF","business_type":"wholesale"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"currency":"CHF"`)
	assert.Equal(t, "wholesale", repo.companies[ownCompany].BusinessType)
	assert.Equal(t, "Boulangerie Martin", repo.companies[ownCompany].Name)

	rec = serve(repo, http.MethodPut, "/companies/"+otherCompany, `{"name":"Mine now"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Pâtisserie Dupont", repo.companies[otherCompany].Name)

	rec = serve(repo, http.MethodPut, "/companies/"+ownCompany, `{"business_type":"retail"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "business_type: Invalid enum value")
}
