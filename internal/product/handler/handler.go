package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/orderflow-service/internal/httpx"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/pagination"
	"github.com/fekuna/orderflow-service/internal/product"
	"github.com/fekuna/orderflow-service/internal/product/dto"
	"github.com/fekuna/orderflow-service/internal/validation"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Post("/products", h.CreateProduct)
	r.Get("/products/{id}", h.GetProduct)
	r.Put("/products/{id}", h.UpdateProduct)
	r.Delete("/products/{id}", h.DeleteProduct)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.Parse(q)

	filters := &dto.ProductFilters{
		Category:       q.Get("category"),
		IsActive:       validation.OptionalBool(q, "is_active"),
		TrackInventory: validation.OptionalBool(q, "track_inventory"),
		SearchQuery:    q.Get("search"),
		Page:           page.Page,
		Limit:          page.Limit,
	}

	products, total, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pagination.NewPage[model.Product](products, page, total))
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateProductInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	p, err := h.uc.GetProduct(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var input dto.UpdateProductInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	p, err := h.uc.UpdateProduct(r.Context(), id, &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.uc.DeleteProduct(r.Context(), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
