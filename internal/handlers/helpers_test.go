package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/a2sh3r/commission-ledger/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// newRequest builds a request as the router would hand it to a handler:
// authenticated as userID (when non-zero) with the {id} URL param set.
func newRequest(method, target, body string, userID int64, id string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	ctx := req.Context()
	if userID != 0 {
		ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	}
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}
