package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/orderflow-service/internal/httpx"
	"github.com/fekuna/orderflow-service/internal/identity"
	"github.com/fekuna/orderflow-service/internal/identity/dto"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

type AuthHandler struct {
	uc     identity.UseCase
	logger logger.ZapLogger
}

func NewAuthHandler(uc identity.UseCase, log logger.ZapLogger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: log,
	}
}

// Routes registers the public authentication endpoints.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/auth/signup", h.Signup)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input dto.SignupInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.uc.Signup(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input dto.LoginInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.uc.Login(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input dto.RefreshInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	res, err := h.uc.Refresh(r.Context(), &input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
