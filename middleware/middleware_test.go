package middleware_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xrage/tparams"
	"github.com/xrage/tparams/middleware"
)

func testSchema(t *testing.T) *tparams.Schema {
	t.Helper()
	s := tparams.New("user").
		Field("name", tparams.String()).
		Field("age", tparams.Integer(), tparams.Optional())
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return s
}

func TestBind_Success(t *testing.T) {
	s := testSchema(t)
	r := httptest.NewRequest("POST", "/users", strings.NewReader(`{"name":"Ann","age":"30","admin":true}`))

	v, err := middleware.Bind(s, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inst := v.(*tparams.Instance)
	if inst.String("name") != "Ann" || inst.Int("age") != 30 {
		t.Fatalf("unexpected instance: %v", inst.Fields())
	}
	if inst.Has("admin") {
		t.Fatalf("unknown key leaked through")
	}
}

func TestBind_ValidationFailure(t *testing.T) {
	s := testSchema(t)
	r := httptest.NewRequest("POST", "/users", strings.NewReader(`{}`))

	_, err := middleware.Bind(s, r)
	ve, ok := tparams.AsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Code != tparams.CodeBadRequest {
		t.Fatalf("code = %q", ve.Code)
	}
}

func TestBind_MalformedBody(t *testing.T) {
	s := testSchema(t)
	r := httptest.NewRequest("POST", "/users", strings.NewReader(`{"name":`))

	_, err := middleware.Bind(s, r)
	if _, ok := tparams.AsValidationError(err); !ok {
		t.Fatalf("expected ValidationError wrapping the decode failure, got %v", err)
	}
}

func TestErrorPayload(t *testing.T) {
	ve := &tparams.ValidationError{
		Code: tparams.CodeBadRequest,
		Tree: tparams.ErrorTree{"name": []string{"Field is required"}},
	}
	payload := middleware.ErrorPayload(ve)
	if payload["error"] != tparams.CodeBadRequest {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if _, ok := payload["details"]; !ok {
		t.Fatalf("expected details in payload: %v", payload)
	}

	msgOnly := &tparams.ValidationError{Code: tparams.CodeBadRequest, Message: "empty body"}
	payload = middleware.ErrorPayload(msgOnly)
	if _, ok := payload["details"]; ok {
		t.Fatalf("did not expect details: %v", payload)
	}
	if payload["message"] != "empty body" {
		t.Fatalf("expected message in payload: %v", payload)
	}
}

func TestContextStash(t *testing.T) {
	inst := &tparams.Instance{}
	ctx := middleware.ContextWithBuilt(context.Background(), inst)
	got, ok := middleware.InstanceFromContext(ctx)
	if !ok || got != inst {
		t.Fatalf("context round trip failed")
	}
	if _, ok := middleware.BuiltFromContext(context.Background()); ok {
		t.Fatalf("expected miss on empty context")
	}
}
