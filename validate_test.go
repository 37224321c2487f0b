package tparams_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xrage/tparams"
)

func TestValidate_ValidInput(t *testing.T) {
	s := tparams.New("user").
		Field("name", tparams.String()).
		Field("age", tparams.Integer(), tparams.Optional())
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tree := tparams.Validate(map[string]any{"name": "Ann", "age": "30"}, s)
	if !tree.Empty() {
		t.Fatalf("expected empty tree, got %v", tree)
	}
}

func TestValidate_RequiredField(t *testing.T) {
	s := tparams.New("user").Field("name", tparams.String())
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tree := tparams.Validate(map[string]any{}, s)
	want := tparams.ErrorTree{"name": []string{"Field is required"}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_AbsentSkips(t *testing.T) {
	s := tparams.New("s").
		Field("a", tparams.String(), tparams.Optional()).
		Field("b", tparams.String(), tparams.Default("x")).
		Field("c", tparams.String(), tparams.Nilable())
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tree := tparams.Validate(map[string]any{"c": nil}, s)
	if !tree.Empty() {
		t.Fatalf("expected empty tree, got %v", tree)
	}
}

func TestValidate_InvalidScalar(t *testing.T) {
	s := tparams.New("s").Field("age", tparams.Integer())
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tree := tparams.Validate(map[string]any{"age": "old"}, s)
	want := tparams.ErrorTree{"age": []string{"Invalid value"}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ArrayShape(t *testing.T) {
	s := tparams.New("s").Field("tags", tparams.ArrayOf(tparams.Integer()))
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tree := tparams.Validate(map[string]any{"tags": "nope"}, s)
	want := tparams.ErrorTree{"tags": []string{"Must be an array"}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}

	// an empty array is valid with no further checks
	if tree := tparams.Validate(map[string]any{"tags": []any{}}, s); !tree.Empty() {
		t.Fatalf("expected empty tree for empty array, got %v", tree)
	}
}

func TestValidate_ArrayElementErrorsByIndex(t *testing.T) {
	s := tparams.New("s").Field("tags", tparams.ArrayOf(tparams.Integer()))
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tree := tparams.Validate(map[string]any{"tags": []any{"1", "x", "3", nil}}, s)
	want := tparams.ErrorTree{
		"tags": tparams.IndexErrors{
			1: []string{"Cannot cast x to Integer"},
		},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

// String casting is total, so an invalid-element error is unreachable for
// string arrays. Documented behavior, kept as-is.
func TestValidate_StringArrayNeverFailsElements(t *testing.T) {
	s := tparams.New("s").Field("tags", tparams.ArrayOf(tparams.String()))
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tree := tparams.Validate(map[string]any{"tags": []any{"a", 5, true}}, s)
	if !tree.Empty() {
		t.Fatalf("expected empty tree, got %v", tree)
	}
}

func TestValidate_NestedSchema(t *testing.T) {
	address := tparams.New("address").Field("street", tparams.String())
	if err := address.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	s := tparams.New("s").Field("address", tparams.Object(address))
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tree := tparams.Validate(map[string]any{"address": map[string]any{}}, s)
	want := tparams.ErrorTree{
		"address": tparams.ErrorTree{"street": []string{"Field is required"}},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}

	// a valid nested value attaches nothing (pruning)
	tree = tparams.Validate(map[string]any{"address": map[string]any{"street": "Main"}}, s)
	if !tree.Empty() {
		t.Fatalf("expected empty tree, got %v", tree)
	}
}

func TestValidate_NestedArrayPrunesValidSiblings(t *testing.T) {
	item := tparams.New("item").Field("name", tparams.String())
	if err := item.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	s := tparams.New("s").Field("items", tparams.ArrayOf(tparams.Object(item)))
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	input := map[string]any{"items": []any{
		map[string]any{"name": "ok"},
		map[string]any{"name": "fine"},
		map[string]any{},
	}}
	tree := tparams.Validate(input, s)
	want := tparams.ErrorTree{
		"items": tparams.IndexErrors{
			2: tparams.ErrorTree{"name": []string{"Field is required"}},
		},
	}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_DeclaredCheckHook(t *testing.T) {
	s := tparams.New("s").
		Field("age", tparams.Integer(), tparams.Range(0, 130)).
		Field("role", tparams.String(), tparams.In("admin", "member"))
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tree := tparams.Validate(map[string]any{"age": "200", "role": "root"}, s)
	if len(tree) != 2 {
		t.Fatalf("expected failures for both fields, got %v", tree)
	}

	tree = tparams.Validate(map[string]any{"age": "30", "role": "admin"}, s)
	if !tree.Empty() {
		t.Fatalf("expected empty tree, got %v", tree)
	}
}

func TestValidate_CustomCheck(t *testing.T) {
	s := tparams.New("s").
		Field("name", tparams.String(), tparams.Check(func(v any) error {
			if v == "bad" {
				return fmt.Errorf("is reserved")
			}
			return nil
		}))
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tree := tparams.Validate(map[string]any{"name": "bad"}, s)
	want := tparams.ErrorTree{"name": []string{"is reserved"}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}
