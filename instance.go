package tparams

import "time"

// Instance is the default product of a schema's constructor: a map-backed
// value with typed accessors. Instances are created once per build and never
// mutate their input.
type Instance struct {
	schema *Schema
	fields map[string]any
}

// Schema returns the schema this instance was built from.
func (in *Instance) Schema() *Schema { return in.schema }

// Has reports whether the field was populated by the builder.
func (in *Instance) Has(name string) bool {
	_, ok := in.fields[name]
	return ok
}

// Get returns the raw field value, or nil when absent.
func (in *Instance) Get(name string) any { return in.fields[name] }

// Fields returns a copy of the populated field map.
func (in *Instance) Fields() map[string]any {
	out := make(map[string]any, len(in.fields))
	for k, v := range in.fields {
		out[k] = v
	}
	return out
}

// String returns the field as a string, or "" when absent or mistyped.
func (in *Instance) String(name string) string {
	s, _ := in.fields[name].(string)
	return s
}

// Int returns the field as an int64, or 0 when absent or mistyped.
func (in *Instance) Int(name string) int64 {
	n, _ := toInt64(in.fields[name])
	return n
}

// Float returns the field as a float64, or 0 when absent or mistyped.
func (in *Instance) Float(name string) float64 {
	f, _ := toFloat(in.fields[name])
	return f
}

// Bool returns the field as a bool, or false when absent or mistyped.
func (in *Instance) Bool(name string) bool {
	b, _ := in.fields[name].(bool)
	return b
}

// Time returns the field as a time.Time, or the zero time when absent.
func (in *Instance) Time(name string) time.Time {
	t, _ := in.fields[name].(time.Time)
	return t
}

// Slice returns the field as a []any, or nil when absent or mistyped.
func (in *Instance) Slice(name string) []any {
	s, _ := in.fields[name].([]any)
	return s
}

// Nested returns the field as a nested *Instance, or nil.
func (in *Instance) Nested(name string) *Instance {
	n, _ := in.fields[name].(*Instance)
	return n
}

// Enum returns the field as an EnumMember; ok is false when absent or
// mistyped.
func (in *Instance) Enum(name string) (EnumMember, bool) {
	m, ok := in.fields[name].(EnumMember)
	return m, ok
}
