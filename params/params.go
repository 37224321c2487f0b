// Package params provides the untrusted request container consumed by the
// tparams pipeline: nested map/array/scalar data with a restrict-to-allowlist
// operation. Containers are immutable; every operation returns a new one.
package params

import (
	"bytes"
	"errors"
	"io"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

var (
	// ErrEmptyBody is returned by FromJSON for an empty input.
	ErrEmptyBody = errors.New("params: empty body")
	// ErrTrailingData is returned by FromJSON when the input holds more than
	// one JSON document.
	ErrTrailingData = errors.New("params: trailing data after JSON document")
	// ErrNotObject is returned when the top-level JSON value is not an object.
	ErrNotObject = errors.New("params: top-level JSON value must be an object")
)

// maxBodyBytes caps FromJSON reads. Oversized bodies fail decoding rather
// than exhausting memory.
const maxBodyBytes = 1 << 20

// Params is an untrusted container over nested map/array/scalar data.
type Params struct {
	data map[string]any
}

// FromMap wraps already-decoded data. The map is copied shallowly; nested
// values are shared but never mutated by the container.
func FromMap(m map[string]any) Params {
	data := make(map[string]any, len(m))
	for k, v := range m {
		data[k] = v
	}
	return Params{data: data}
}

// FromJSON strictly reads a single JSON object from r. Numbers are kept as
// json.Number so integer precision survives until casting.
func FromJSON(r io.Reader) (Params, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return Params{}, err
	}
	return FromJSONBytes(b)
}

// FromJSONBytes is FromJSON over a byte slice.
func FromJSONBytes(b []byte) (Params, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return Params{}, ErrEmptyBody
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Params{}, err
	}
	if dec.More() {
		return Params{}, ErrTrailingData
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return Params{}, ErrNotObject
	}
	return Params{data: m}, nil
}

// FromValues decodes url.Values with bracket keys: "a" is a scalar,
// "a[b]" nests, a trailing "[]" collects repeated values into a list.
// Values stay strings; the caster coerces them later.
func FromValues(values url.Values) Params {
	data := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		segs, isArray := splitBracketKey(key)
		if len(segs) == 0 {
			continue
		}
		node := data
		for _, seg := range segs[:len(segs)-1] {
			child, ok := node[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[seg] = child
			}
			node = child
		}
		last := segs[len(segs)-1]
		if isArray {
			list, _ := node[last].([]any)
			for _, v := range vals {
				list = append(list, v)
			}
			node[last] = list
		} else {
			node[last] = vals[0]
		}
	}
	return Params{data: data}
}

// splitBracketKey turns "a[b][c]" into ["a","b","c"] and reports whether the
// key ends with an empty "[]" segment.
func splitBracketKey(key string) ([]string, bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return []string{key}, false
	}
	segs := []string{key[:open]}
	rest := key[open:]
	isArray := false
	for len(rest) > 0 {
		if rest[0] != '[' {
			return nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, false
		}
		seg := rest[1:end]
		rest = rest[end+1:]
		if seg == "" {
			isArray = len(rest) == 0
			continue
		}
		segs = append(segs, seg)
	}
	return segs, isArray
}

// Get returns the value stored under key.
func (p Params) Get(key string) (any, bool) {
	v, ok := p.data[key]
	return v, ok
}

// Dig walks nested containers by key, returning false as soon as a segment
// is missing or the current value is not a container.
func (p Params) Dig(keys ...string) (any, bool) {
	var cur any = p.data
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Len returns the number of top-level keys.
func (p Params) Len() int { return len(p.data) }

// Map returns a shallow copy of the underlying data.
func (p Params) Map() map[string]any {
	out := make(map[string]any, len(p.data))
	for k, v := range p.data {
		out[k] = v
	}
	return out
}

// Permit returns a new container narrowed to the filter expression produced
// by the pipeline's permitted-key planner. Expression elements are bare key
// strings (scalar fields, kept as-is) or single-key maps whose value is the
// recursively converted nested expression: a sub-expression list for nested
// objects, a one-element list holding a sub-expression for arrays of
// objects, or an empty list for arrays of scalars.
func (p Params) Permit(expr []any) Params {
	return Params{data: permitMap(p.data, expr)}
}

func permitMap(data map[string]any, expr []any) map[string]any {
	out := make(map[string]any, len(expr))
	for _, item := range expr {
		switch e := item.(type) {
		case string:
			if v, ok := data[e]; ok {
				out[e] = v
			}
		case map[string]any:
			for key, sub := range e {
				v, ok := data[key]
				if !ok {
					continue
				}
				subExpr, ok := sub.([]any)
				if !ok {
					continue
				}
				if filtered, ok := permitValue(v, subExpr); ok {
					out[key] = filtered
				}
			}
		}
	}
	return out
}

// permitValue applies a nested sub-expression to a single value. Values of
// the wrong shape are dropped entirely, matching the allowlist contract.
func permitValue(v any, subExpr []any) (any, bool) {
	// {key: []} — array of scalars
	if len(subExpr) == 0 {
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		out := make([]any, 0, len(arr))
		for _, el := range arr {
			switch el.(type) {
			case map[string]any, []any:
				// containers are not permitted under a scalar-array key
			default:
				out = append(out, el)
			}
		}
		return out, true
	}
	// {key: [subexpr]} — array of objects
	if inner, ok := subExpr[0].([]any); ok && len(subExpr) == 1 {
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		out := make([]any, 0, len(arr))
		for _, el := range arr {
			if el == nil {
				out = append(out, nil)
				continue
			}
			if m, ok := el.(map[string]any); ok {
				out = append(out, permitMap(m, inner))
			}
		}
		return out, true
	}
	// {key: subexpr} — nested object
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return permitMap(m, subExpr), true
}
