// Package middleware binds HTTP request bodies through the tparams pipeline
// and shapes validation failures for JSON responses.
package middleware

import (
	"context"
	"net/http"

	"github.com/xrage/tparams"
	"github.com/xrage/tparams/params"
)

// ctxKeyBuilt is the typed context key for storing the built value.
type ctxKeyBuilt struct{}

// ContextWithBuilt attaches a built value to the context.
func ContextWithBuilt(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyBuilt{}, v)
}

// BuiltFromContext retrieves the built value from the context.
func BuiltFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyBuilt{})
	return v, v != nil
}

// InstanceFromContext retrieves the built value as a *tparams.Instance.
func InstanceFromContext(ctx context.Context) (*tparams.Instance, bool) {
	v, ok := ctx.Value(ctxKeyBuilt{}).(*tparams.Instance)
	return v, ok
}

// Bind reads the request body as JSON and runs it through the pipeline.
func Bind(s *tparams.Schema, r *http.Request) (any, error) {
	p, err := params.FromJSON(r.Body)
	if err != nil {
		return nil, &tparams.ValidationError{Code: tparams.CodeBadRequest, Message: err.Error()}
	}
	return tparams.BuildFromParams(s, p)
}

// ErrorPayload shapes a ValidationError for JSON responses: the short code
// under "error" and the nested error tree under "details".
func ErrorPayload(ve *tparams.ValidationError) map[string]any {
	payload := map[string]any{"error": ve.Code}
	if len(ve.Tree) > 0 {
		payload["details"] = ve.Tree
	}
	if ve.Message != "" {
		payload["message"] = ve.Message
	}
	return payload
}
