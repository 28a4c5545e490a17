package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/orderflow-service/internal/company"
	"github.com/fekuna/orderflow-service/internal/company/dto"
	"github.com/fekuna/orderflow-service/internal/httpx"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type CompanyHandler struct {
	uc     company.UseCase
	logger logger.ZapLogger
}

func NewCompanyHandler(uc company.UseCase, log logger.ZapLogger) *CompanyHandler {
	return &CompanyHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CompanyHandler) Routes(r chi.Router) {
	r.Get("/companies/{id}", h.GetCompany)
	r.Put("/companies/{id}", h.UpdateCompany)
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c, err := h.uc.GetCompany(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var input dto.UpdateCompanyInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c, err := h.uc.UpdateCompany(r.Context(), id, &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}
