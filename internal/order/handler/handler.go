package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/orderflow-service/internal/httpx"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/order"
	"github.com/fekuna/orderflow-service/internal/order/dto"
	"github.com/fekuna/orderflow-service/internal/pagination"
	"github.com/fekuna/orderflow-service/internal/validation"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) Routes(r chi.Router) {
	r.Get("/orders", h.ListOrders)
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders/{id}", h.GetOrder)
	r.Put("/orders/{id}", h.UpdateOrder)
	r.Delete("/orders/{id}", h.DeleteOrder)
}

func statusNames() []string {
	names := make([]string, 0, len(model.AllOrderStatuses))
	for _, s := range model.AllOrderStatuses {
		names = append(names, string(s))
	}
	return names
}

func parseFilters(r *http.Request, page pagination.Params) (*dto.OrderFilters, error) {
	q := r.URL.Query()

	status, err := validation.OneOf(q, "status", statusNames()...)
	if err != nil {
		return nil, err
	}
	customerID, err := validation.OptionalUUID(q, "customer_id")
	if err != nil {
		return nil, err
	}
	from, err := validation.OptionalDate(q, "date_from")
	if err != nil {
		return nil, err
	}
	to, err := validation.OptionalDate(q, "date_to")
	if err != nil {
		return nil, err
	}

	return &dto.OrderFilters{
		Status:     status,
		CustomerID: customerID,
		DateFrom:   from,
		DateTo:     to,
		Page:       page.Page,
		Limit:      page.Limit,
	}, nil
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page := pagination.Parse(r.URL.Query())
	filters, err := parseFilters(r, page)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	orders, total, err := h.uc.ListOrders(r.Context(), filters)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pagination.NewPage[model.Order](orders, page, total))
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateOrderInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	o, err := h.uc.CreateOrder(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	o, err := h.uc.GetOrder(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var input dto.UpdateOrderInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	o, err := h.uc.UpdateOrder(r.Context(), id, &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.uc.DeleteOrder(r.Context(), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
