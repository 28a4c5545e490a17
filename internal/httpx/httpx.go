// Package httpx holds the JSON request/response helpers shared by every handler.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fekuna/orderflow-service/internal/apperror"
	"github.com/fekuna/orderflow-service/pkg/i18n"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError shapes err into the error envelope with the status of its kind.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperror.As(err)
	if e == nil {
		e = apperror.Internal(nil)
	}
	recordError(r.Context(), err)

	WriteJSON(w, e.Kind.HTTPStatus(), ErrorResponse{
		Error:   i18n.Localize(r.Context(), e.MessageID, e.Data, e.Message),
		Details: e.Details,
	})
}

// DecodeJSON decodes the request body into v. Unknown fields are ignored.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return &apperror.Error{Kind: apperror.KindValidation, MessageID: "error.body_too_large", Message: "Request body too large"}
		case errors.Is(err, io.EOF):
			return &apperror.Error{Kind: apperror.KindValidation, MessageID: "error.invalid_json", Message: "Invalid JSON body"}
		default:
			return &apperror.Error{Kind: apperror.KindValidation, MessageID: "error.invalid_json", Message: "Invalid JSON body", Details: err.Error()}
		}
	}
	return nil
}

// URLParamID returns the {key} path parameter after checking it is a UUID.
func URLParamID(r *http.Request, key string) (string, error) {
	id := chi.URLParam(r, key)
	if _, err := uuid.Parse(id); err != nil {
		return "", &apperror.Error{Kind: apperror.KindValidation, MessageID: "error.invalid_id", Message: "Invalid identifier"}
	}
	return id, nil
}

type errorHolderKey struct{}

type errorHolder struct{ err error }

// WithErrorCapture lets request logging see the error behind a failed response.
func WithErrorCapture(ctx context.Context) (context.Context, func() error) {
	h := &errorHolder{}
	return context.WithValue(ctx, errorHolderKey{}, h), func() error { return h.err }
}

func recordError(ctx context.Context, err error) {
	if h, ok := ctx.Value(errorHolderKey{}).(*errorHolder); ok {
		h.err = err
	}
}
