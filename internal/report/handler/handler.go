package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/orderflow-service/internal/httpx"
	"github.com/fekuna/orderflow-service/internal/report"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type ReportHandler struct {
	uc     report.UseCase
	logger logger.ZapLogger
}

func NewReportHandler(uc report.UseCase, log logger.ZapLogger) *ReportHandler {
	return &ReportHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReportHandler) Routes(r chi.Router) {
	r.Get("/reports/dashboard", h.Dashboard)
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.uc.Dashboard(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}
