package tparams

import "sort"

// Plan is the structural allowlist derived from a schema. Values are one of:
// nil (scalar, accept as-is), a nested Plan (nested-schema field), a
// one-element []Plan (array of nested schemas), or an empty []Plan (array of
// primitives). The plan mirrors the schema's shape.
type Plan map[string]any

// Plan returns the schema's permitted-key plan, memoized once the schema is
// finalized.
func (s *Schema) Plan() Plan {
	s.mu.RLock()
	if s.planCache != nil {
		p := s.planCache
		s.mu.RUnlock()
		return p
	}
	finalized := s.finalized
	s.mu.RUnlock()

	p := planFor(s)
	if finalized {
		s.mu.Lock()
		s.planCache = p
		s.mu.Unlock()
	}
	return p
}

func planFor(s *Schema) Plan {
	props := s.Properties()
	p := make(Plan, len(props))
	for _, prop := range props {
		cat, under := s.classifyField(prop.Name, prop.Type)
		switch cat {
		case CategoryNestedSchema:
			p[prop.Name] = under.Schema.Plan()
		case CategoryArray:
			elemCat, elemUnder := Classify(under)
			if elemCat == CategoryNestedSchema {
				p[prop.Name] = []Plan{elemUnder.Schema.Plan()}
			} else {
				p[prop.Name] = []Plan{}
			}
		default:
			p[prop.Name] = nil
		}
	}
	return p
}

// FilterExpr converts a plan into the filter-expression form understood by
// the params container: a list whose elements are bare key strings (scalars)
// or single-key maps carrying the recursively converted nested expression.
// Keys are emitted in ascending order for deterministic behavior. The
// conversion is cheap and computed per call, not cached.
func FilterExpr(p Plan) []any {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	expr := make([]any, 0, len(keys))
	for _, k := range keys {
		switch v := p[k].(type) {
		case nil:
			expr = append(expr, k)
		case Plan:
			expr = append(expr, map[string]any{k: FilterExpr(v)})
		case []Plan:
			if len(v) == 0 {
				expr = append(expr, map[string]any{k: []any{}})
			} else {
				expr = append(expr, map[string]any{k: []any{FilterExpr(v[0])}})
			}
		}
	}
	return expr
}
