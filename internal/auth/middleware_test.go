package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/orderflow-service/pkg/logger"
)

type fakeVerifier struct {
	tokens map[string]*Identity
	calls  int
}

func (f *fakeVerifier) GetUser(_ context.Context, token string) (*Identity, error) {
	f.calls++
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return nil, errors.New("token is expired")
}

type fakeCompanies struct {
	byUser map[string]string
	err    error
}

func (f *fakeCompanies) CompanyIDForUser(_ context.Context, userID string) (string, error) {
	return f.byUser[userID], f.err
}

func newTestGate(companies *fakeCompanies) (*Gate, *fakeVerifier) {
	v := &fakeVerifier{tokens: map[string]*Identity{
		"good":   {UserID: "u-1", Email: "owner@example.com"},
		"orphan": {UserID: "u-2", Email: "orphan@example.com"},
	}}
	return NewGate(v, companies, logger.NewNop()), v
}

func serve(g *Gate, header string) (*httptest.ResponseRecorder, *UserContext) {
	var seen *UserContext
	h := g.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := FromContext(r.Context())
		if ok {
			seen = &u
		}
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRequireAuthMissingHeader(t *testing.T) {
	g, v := newTestGate(&fakeCompanies{})
	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearergood"} {
		rec, seen := serve(g, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Nil(t, seen)
	}
	assert.Zero(t, v.calls)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	g, _ := newTestGate(&fakeCompanies{})
	rec, seen := serve(g, "Bearer expired")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", errorMessage(t, rec))
	assert.Nil(t, seen)
}

func TestRequireAuthNoCompany(t *testing.T) {
	g, _ := newTestGate(&fakeCompanies{byUser: map[string]string{"u-1": "c-1"}})
	rec, seen := serve(g, "Bearer orphan")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, seen)
}

func TestRequireAuthCompanyLookupFails(t *testing.T) {
	g, _ := newTestGate(&fakeCompanies{err: errors.New("db down")})
	rec, _ := serve(g, "Bearer good")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireAuthAttachesContext(t *testing.T) {
	g, _ := newTestGate(&fakeCompanies{byUser: map[string]string{"u-1": "c-1"}})
	rec, seen := serve(g, "Bearer good")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, UserContext{UserID: "u-1", Email: "owner@example.com", CompanyID: "c-1"}, *seen)
}

func TestGetCompanyIDOutsideRequest(t *testing.T) {
	assert.Empty(t, GetCompanyID(context.Background()))
	ctx := WithUser(context.Background(), UserContext{CompanyID: "c-9"})
	assert.Equal(t, "c-9", GetCompanyID(ctx))
}
