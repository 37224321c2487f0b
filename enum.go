package tparams

import "encoding/json"

// EnumMember is a single named member of an Enum, carrying the raw wire value
// it deserializes from (a string or an int64).
type EnumMember struct {
	Name string
	Raw  any
}

// Enum is a closed member set deserializable by raw value. Members are fixed
// at construction; the set never changes afterwards.
type Enum struct {
	name    string
	members []EnumMember
	byRaw   map[any]EnumMember
}

// NewEnum builds an enumeration from its members. Numeric raw values are
// normalized to int64 so that lookups do not depend on the caller's integer
// width.
func NewEnum(name string, members ...EnumMember) *Enum {
	e := &Enum{name: name, byRaw: make(map[any]EnumMember, len(members))}
	for _, m := range members {
		m.Raw = normalizeRaw(m.Raw)
		e.members = append(e.members, m)
		e.byRaw[m.Raw] = m
	}
	return e
}

// Name returns the enumeration's declared name.
func (e *Enum) Name() string { return e.name }

// Members returns the members in declaration order.
func (e *Enum) Members() []EnumMember {
	out := make([]EnumMember, len(e.members))
	copy(out, e.members)
	return out
}

// Deserialize looks a member up by raw value. Strings and integers are
// accepted; anything else misses.
func (e *Enum) Deserialize(raw any) (EnumMember, bool) {
	m, ok := e.byRaw[normalizeRaw(raw)]
	return m, ok
}

// Contains reports whether m is a member of this enumeration.
func (e *Enum) Contains(m EnumMember) bool {
	got, ok := e.byRaw[normalizeRaw(m.Raw)]
	return ok && got.Name == m.Name
}

// normalizeRaw widens integer raw values to int64 and unwraps json.Number so
// the member table has a single representation per value.
func normalizeRaw(raw any) any {
	switch v := raw.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case float64:
		if v == float64(int64(v)) {
			return int64(v)
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		return v.String()
	}
	return raw
}
