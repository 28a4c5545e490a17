package auth

import (
	"context"
)

// UserContext is the authenticated caller attached to every protected request.
type UserContext struct {
	UserID    string
	Email     string
	CompanyID string
}

type userContextKey struct{}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

func FromContext(ctx context.Context) (UserContext, bool) {
	u, ok := ctx.Value(userContextKey{}).(UserContext)
	return u, ok
}

// GetCompanyID returns the caller's company or "" outside an authenticated request.
func GetCompanyID(ctx context.Context) string {
	u, _ := FromContext(ctx)
	return u.CompanyID
}
