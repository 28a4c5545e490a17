package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/orderflow-service/internal/customer"
	"github.com/fekuna/orderflow-service/internal/customer/dto"
	"github.com/fekuna/orderflow-service/internal/httpx"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/pagination"
	"github.com/fekuna/orderflow-service/internal/validation"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type CustomerHandler struct {
	uc     customer.UseCase
	logger logger.ZapLogger
}

func NewCustomerHandler(uc customer.UseCase, log logger.ZapLogger) *CustomerHandler {
	return &CustomerHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CustomerHandler) Routes(r chi.Router) {
	r.Get("/customers", h.ListCustomers)
	r.Post("/customers", h.CreateCustomer)
	r.Get("/customers/{id}", h.GetCustomer)
	r.Put("/customers/{id}", h.UpdateCustomer)
	r.Delete("/customers/{id}", h.DeleteCustomer)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.Parse(q)

	filters := &dto.CustomerFilters{
		SearchQuery: q.Get("search"),
		IsActive:    validation.OptionalBool(q, "is_active"),
		Page:        page.Page,
		Limit:       page.Limit,
	}

	customers, total, err := h.uc.ListCustomers(r.Context(), filters)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pagination.NewPage[model.Customer](customers, page, total))
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateCustomerInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c, err := h.uc.CreateCustomer(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c, err := h.uc.GetCustomer(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var input dto.UpdateCustomerInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c, err := h.uc.UpdateCustomer(r.Context(), id, &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.uc.DeleteCustomer(r.Context(), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
