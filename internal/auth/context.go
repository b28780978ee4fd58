package auth

import (
	"context"

	"github.com/fekuna/omnipos-backoffice/internal/apperr"
)

// RequestContext identifies the caller of a use case. It is passed
// explicitly; use cases never look it up themselves.
type RequestContext struct {
	StoreID string
	UserID  string
	Role    string
}

func (rc RequestContext) Validate() error {
	if rc.StoreID == "" {
		return apperr.ErrUnauthenticated
	}
	return nil
}

type ctxKey struct{}

// WithRequestContext stores rc on ctx. Only transport code uses this.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext returns the RequestContext set by the transport middleware.
func FromContext(ctx context.Context) (RequestContext, error) {
	rc, ok := ctx.Value(ctxKey{}).(RequestContext)
	if !ok || rc.StoreID == "" {
		return RequestContext{}, apperr.ErrUnauthenticated
	}
	return rc, nil
}
