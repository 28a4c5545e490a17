package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/orderflow-service/internal/httpx"
	"github.com/fekuna/orderflow-service/internal/inventory"
	"github.com/fekuna/orderflow-service/internal/inventory/dto"
	"github.com/fekuna/orderflow-service/internal/model"
	"github.com/fekuna/orderflow-service/internal/pagination"
	"github.com/fekuna/orderflow-service/internal/validation"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Routes(r chi.Router) {
	r.Get("/inventory", h.ListInventory)
	r.Post("/inventory", h.CreateInventory)
	r.Get("/inventory/{id}", h.GetInventory)
	r.Put("/inventory/{id}", h.UpdateInventory)
	r.Get("/inventory/{id}/movements", h.ListMovements)
	r.Post("/inventory/{id}/movements", h.RecordMovement)
}

func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pagination.Parse(q)

	kind, err := validation.OneOf(q, "type", model.InventoryKindFinishedProduct, model.InventoryKindRawMaterial)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	lowStock := validation.OptionalBool(q, "low_stock")

	filters := &dto.InventoryFilters{
		Type:     kind,
		LowStock: lowStock != nil && *lowStock,
		IsActive: validation.OptionalBool(q, "is_active"),
		Page:     page.Page,
		Limit:    page.Limit,
	}

	items, total, err := h.uc.ListInventory(r.Context(), filters)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pagination.NewPage[model.Inventory](items, page, total))
}

func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateInventoryInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	inv, err := h.uc.CreateInventory(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, inv)
}

func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	inv, err := h.uc.GetInventory(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, inv)
}

func (h *InventoryHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var input dto.UpdateInventoryInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	inv, err := h.uc.UpdateInventory(r.Context(), id, &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, inv)
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	page := pagination.Parse(r.URL.Query())

	movements, total, err := h.uc.ListMovements(r.Context(), &dto.MovementFilters{
		InventoryID: id,
		Page:        page.Page,
		Limit:       page.Limit,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pagination.NewPage[model.StockMovement](movements, page, total))
}

func (h *InventoryHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var input dto.MovementInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	m, err := h.uc.RecordMovement(r.Context(), id, &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, m)
}
