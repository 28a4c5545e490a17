package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/internal/httpx"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

// Identity is what a verified access token resolves to.
type Identity struct {
	UserID string
	Email  string
}

type TokenVerifier interface {
	GetUser(ctx context.Context, accessToken string) (*Identity, error)
}

// CompanyResolver returns the company owned by userID, or "" when there is none.
type CompanyResolver interface {
	CompanyIDForUser(ctx context.Context, userID string) (string, error)
}

type Gate struct {
	verifier  TokenVerifier
	companies CompanyResolver
	logger    logger.ZapLogger
}

func NewGate(verifier TokenVerifier, companies CompanyResolver, log logger.ZapLogger) *Gate {
	return &Gate{verifier: verifier, companies: companies, logger: log}
}

// RequireAuth rejects requests without a valid bearer token (401) or without
// an owning company (403), and attaches UserContext otherwise.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			httpx.WriteError(w, r, apperror.ErrMissingToken)
			return
		}

		ident, err := g.verifier.GetUser(r.Context(), token)
		if err != nil || ident == nil {
			g.logger.Debug("rejected bearer token", zap.Error(err))
			httpx.WriteError(w, r, apperror.ErrInvalidToken)
			return
		}

		companyID, err := g.companies.CompanyIDForUser(r.Context(), ident.UserID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if companyID == "" {
			httpx.WriteError(w, r, apperror.ErrNoCompany)
			return
		}

		ctx := WithUser(r.Context(), UserContext{
			UserID:    ident.UserID,
			Email:     ident.Email,
			CompanyID: companyID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
