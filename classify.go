package tparams

// classification is a cached classifier result. Cache entries are keyed by
// field name, a stable structural key, rather than by descriptor identity.
type classification struct {
	cat   Category
	under Type
}

// Classify resolves a declared type to its category and underlying type.
// Rules, applied in order: array-of-T, nested schema reference, enumeration
// reference, optional wrapper (classified as its non-null arm), and a
// primitive fallback. Classification never fails; an unclassifiable type
// degrades to Primitive and any failure is deferred to casting time.
func Classify(t Type) (Category, Type) {
	switch {
	case t.Kind == KindArray && t.Elem != nil:
		return CategoryArray, *t.Elem
	case t.Kind == KindObject && t.Schema != nil:
		return CategoryNestedSchema, t
	case t.Kind == KindEnum && t.Enum != nil:
		return CategoryEnumeration, t
	}
	if t.Optional {
		u := t
		u.Optional = false
		return Classify(u)
	}
	return CategoryPrimitive, t
}

// classifyField memoizes Classify per (schema, field name). Results are only
// cached once the schema is finalized; during the declaration window every
// call recomputes, so property additions can never observe stale entries.
func (s *Schema) classifyField(name string, t Type) (Category, Type) {
	s.mu.RLock()
	if c, ok := s.classCache[name]; ok {
		s.mu.RUnlock()
		return c.cat, c.under
	}
	finalized := s.finalized
	s.mu.RUnlock()

	cat, under := Classify(t)
	if !finalized {
		return cat, under
	}
	s.mu.Lock()
	if s.classCache == nil {
		s.classCache = make(map[string]classification, len(s.props))
	}
	s.classCache[name] = classification{cat: cat, under: under}
	s.mu.Unlock()
	return cat, under
}
