package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/product/dto"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

const productID = "6f1c2b0e-8d4a-4c3e-9b7f-2a1d5e6c7b80"

type stubUseCase struct {
	lastFilters *dto.ProductFilters
}

func (s *stubUseCase) CreateProduct(_ context.Context, in *dto.CreateProductInput) (*model.Product, error) {
	p := &model.Product{BaseModel: model.BaseModel{ID: productID}, Name: in.Name}
	if in.Price != nil {
		p.Price = *in.Price
	}
	return p, nil
}

func (s *stubUseCase) GetProduct(_ context.Context, id string) (*model.Product, error) {
	if id != productID {
		return nil, apperror.NotFound("Product")
	}
	return &model.Product{BaseModel: model.BaseModel{ID: id}, Name: "Croissant", Price: decimal.RequireFromString("1.2")}, nil
}

func (s *stubUseCase) ListProducts(_ context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	s.lastFilters = f
	return nil, 0, nil
}

func (s *stubUseCase) UpdateProduct(_ context.Context, id string, _ *dto.UpdateProductInput) (*model.Product, error) {
	return s.GetProduct(context.Background(), id)
}

func (s *stubUseCase) DeleteProduct(_ context.Context, id string) error {
	if id != productID {
		return apperror.NotFound("Product")
	}
	return nil
}

func serve(uc *stubUseCase, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewProductHandler(uc, logger.NewNop()).Routes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestListProductsParsesQuery(t *testing.T) {
	uc := &stubUseCase{}
	rec := serve(uc, http.MethodGet, "/products?page=2&limit=500&category=bread&is_active=false&search=cro", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.lastFilters)
	assert.Equal(t, 2, uc.lastFilters.Page)
	assert.Equal(t, 100, uc.lastFilters.Limit)
	assert.Equal(t, "bread", uc.lastFilters.Category)
	require.NotNil(t, uc.lastFilters.IsActive)
	assert.False(t, *uc.lastFilters.IsActive)
	assert.Nil(t, uc.lastFilters.TrackInventory)
	assert.Equal(t, "cro", uc.lastFilters.SearchQuery)

	var body struct {
		Data       []interface{}          `json:"data"`
		Pagination map[string]interface{} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotNil(t, body.Data)
	assert.Empty(t, body.Data)
	assert.EqualValues(t, 0, body.Pagination["total"])
	assert.Equal(t, true, body.Pagination["hasPrev"])
}

func TestCreateProduct(t *testing.T) {
	rec := serve(&stubUseCase{}, http.MethodPost, "/products", `{"name":"Baguette","price":1.1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":1.1`)
}

func TestCreateProductInvalidJSON(t *testing.T) {
	rec := serve(&stubUseCase{}, http.MethodPost, "/products", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestGetProduct(t *testing.T) {
	rec := serve(&stubUseCase{}, http.MethodGet, "/products/"+productID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Croissant"`)

	rec = serve(&stubUseCase{}, http.MethodGet, "/products/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&stubUseCase{}, http.MethodGet, "/products/00000000-0000-0000-0000-000000000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, rec.Body.String())
}

func TestDeleteProduct(t *testing.T) {
	rec := serve(&stubUseCase{}, http.MethodDelete, "/products/"+productID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
