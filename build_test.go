package tparams_test

import (
	"testing"

	"github.com/xrage/tparams"
)

func TestBuild_ConcreteScenario(t *testing.T) {
	s := tparams.New("user").
		Field("name", tparams.String()).
		Field("age", tparams.Integer(), tparams.Optional())
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	input := map[string]any{"name": "Ann", "age": "30"}
	if tree := tparams.Validate(input, s); !tree.Empty() {
		t.Fatalf("expected valid input, got %v", tree)
	}

	inst := tparams.Build(input, s).(*tparams.Instance)
	if inst.String("name") != "Ann" {
		t.Fatalf("name = %q", inst.String("name"))
	}
	if got := inst.Int("age"); got != 30 {
		t.Fatalf("age = %v, want 30", inst.Get("age"))
	}
}

func TestBuild_DefaultApplied(t *testing.T) {
	s := tparams.New("s").Field("role", tparams.String(), tparams.Default("member"))
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	inst := tparams.Build(map[string]any{}, s).(*tparams.Instance)
	if inst.String("role") != "member" {
		t.Fatalf("role = %q", inst.String("role"))
	}

	// present values win over defaults; explicit nil omits the field
	inst = tparams.Build(map[string]any{"role": "admin"}, s).(*tparams.Instance)
	if inst.String("role") != "admin" {
		t.Fatalf("role = %q", inst.String("role"))
	}
	inst = tparams.Build(map[string]any{"role": nil}, s).(*tparams.Instance)
	if inst.Has("role") {
		t.Fatalf("expected nil field omitted")
	}
}

func TestBuild_NestedSchema(t *testing.T) {
	address := tparams.New("address").Field("street", tparams.String())
	if err := address.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	s := tparams.New("s").Field("address", tparams.Object(address))
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	inst := tparams.Build(map[string]any{"address": map[string]any{"street": "Main"}}, s).(*tparams.Instance)
	nested := inst.Nested("address")
	if nested == nil || nested.String("street") != "Main" {
		t.Fatalf("nested build failed: %v", nested)
	}
	if nested.Schema() != address {
		t.Fatalf("nested instance bound to wrong schema")
	}

	// an existing instance is used as-is
	again := tparams.Build(map[string]any{"address": nested}, s).(*tparams.Instance)
	if again.Nested("address") != nested {
		t.Fatalf("expected instance passthrough")
	}

	// anything else is omitted, never an error
	odd := tparams.Build(map[string]any{"address": 42}, s).(*tparams.Instance)
	if odd.Has("address") {
		t.Fatalf("expected unconvertible nested value omitted")
	}
}

func TestBuild_Arrays(t *testing.T) {
	item := tparams.New("item").Field("name", tparams.String())
	if err := item.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	colors := tparams.NewEnum("color",
		tparams.EnumMember{Name: "red", Raw: "red"},
	)
	s := tparams.New("s").
		Field("items", tparams.ArrayOf(tparams.Object(item)), tparams.Optional()).
		Field("colors", tparams.ArrayOf(tparams.EnumOf(colors)), tparams.Optional()).
		Field("tags", tparams.ArrayOf(tparams.String()), tparams.Optional())
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	input := map[string]any{
		"items":  []any{map[string]any{"name": "a"}, nil, map[string]any{"name": "b"}},
		"colors": []any{"red", "green"},
		"tags":   []any{"x", 5},
	}
	inst := tparams.Build(input, s).(*tparams.Instance)

	items := inst.Slice("items")
	if len(items) != 2 {
		t.Fatalf("expected nil elements skipped, got %d items", len(items))
	}
	if items[0].(*tparams.Instance).String("name") != "a" {
		t.Fatalf("unexpected first item: %v", items[0])
	}

	colorsOut := inst.Slice("colors")
	if m, ok := colorsOut[0].(tparams.EnumMember); !ok || m.Name != "red" {
		t.Fatalf("expected deserialized member, got %v", colorsOut[0])
	}
	// unknown raw values fall back to the raw value, fail-soft
	if colorsOut[1] != "green" {
		t.Fatalf("expected raw fallback, got %v", colorsOut[1])
	}

	// string casting is total, so mixed scalars come out as text
	tags := inst.Slice("tags")
	if tags[1] != "5" {
		t.Fatalf("expected canonical text form, got %v", tags[1])
	}

	// a non-array value degrades to an empty list
	odd := tparams.Build(map[string]any{"items": "nope"}, s).(*tparams.Instance)
	if got := odd.Slice("items"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestBuild_CustomConstructor(t *testing.T) {
	type account struct{ Name string }
	s := tparams.New("account").Field("name", tparams.String())
	s.Construct(func(fields map[string]any) any {
		name, _ := fields["name"].(string)
		return &account{Name: name}
	})
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	got := tparams.Build(map[string]any{"name": "Ann"}, s)
	acc, ok := got.(*account)
	if !ok || acc.Name != "Ann" {
		t.Fatalf("unexpected product: %#v", got)
	}
}

func TestBind_Struct(t *testing.T) {
	address := tparams.New("address").Field("street", tparams.String())
	if err := address.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	s := tparams.New("user").
		Field("name", tparams.String()).
		Field("age", tparams.Integer(), tparams.Optional()).
		Field("address", tparams.Object(address), tparams.Optional()).
		Field("tags", tparams.ArrayOf(tparams.String()), tparams.Optional())
	if err := s.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	type Addr struct {
		Street string `json:"street"`
	}
	type User struct {
		Name    string   `json:"name"`
		Age     int      `params:"age"`
		Address *Addr    `json:"address"`
		Tags    []string `json:"tags"`
	}

	input := map[string]any{
		"name":    "Ann",
		"age":     int64(30),
		"address": map[string]any{"street": "Main"},
		"tags":    []any{"a", "b"},
	}
	inst := tparams.Build(input, s).(*tparams.Instance)
	u, err := tparams.Bind[User](inst)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if u.Name != "Ann" || u.Age != 30 {
		t.Fatalf("unexpected bind result: %+v", u)
	}
	if u.Address == nil || u.Address.Street != "Main" {
		t.Fatalf("nested bind failed: %+v", u.Address)
	}
	if len(u.Tags) != 2 || u.Tags[0] != "a" {
		t.Fatalf("slice bind failed: %+v", u.Tags)
	}
}
