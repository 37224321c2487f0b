package tparams

// Build instantiates a typed value from raw input. It is invoked only after
// Validate returned an empty tree, so it assumes validity and is total:
// primitive values go through the same cast that validation already
// certified, and anything that still fails to convert degrades to
// nil/unchanged instead of failing.
func Build(input map[string]any, s *Schema) any {
	props := s.Properties()
	fields := make(map[string]any, len(props))
	for _, prop := range props {
		v, present := input[prop.Name]
		if !present {
			if prop.HasDefault {
				fields[prop.Name] = prop.Default
			}
			continue
		}
		if v == nil {
			continue
		}

		cat, under := s.classifyField(prop.Name, prop.Type)
		switch cat {
		case CategoryArray:
			fields[prop.Name] = buildElements(v, under)
		case CategoryNestedSchema:
			switch val := v.(type) {
			case map[string]any:
				fields[prop.Name] = Build(val, under.Schema)
			default:
				if inst, ok := v.(*Instance); ok && inst.schema == under.Schema {
					fields[prop.Name] = inst
				}
				// anything else is omitted
			}
		case CategoryEnumeration:
			fields[prop.Name] = buildEnum(v, under.Enum)
		default:
			fields[prop.Name] = buildPrimitive(v, under)
		}
	}
	return s.construct(fields)
}

// buildPrimitive re-runs the cast that validation certified; a value that
// still fails keeps its raw form rather than raising.
func buildPrimitive(v any, t Type) any {
	cv, err := Cast(v, t)
	if err != nil {
		return v
	}
	return cv
}

// buildElements maps each non-nil element through its per-category
// conversion. A non-array value degrades to an empty list.
func buildElements(v any, elem Type) []any {
	arr, ok := v.([]any)
	if !ok {
		return []any{}
	}
	elemCat, elemUnder := Classify(elem)
	out := make([]any, 0, len(arr))
	for _, el := range arr {
		if el == nil {
			continue
		}
		switch elemCat {
		case CategoryNestedSchema:
			if m, ok := el.(map[string]any); ok {
				out = append(out, Build(m, elemUnder.Schema))
			} else if inst, ok := el.(*Instance); ok && inst.schema == elemUnder.Schema {
				out = append(out, inst)
			}
			// invalid children are filtered, not raised: invalidity was
			// caught earlier by the validator
		case CategoryEnumeration:
			out = append(out, buildEnum(el, elemUnder.Enum))
		default:
			out = append(out, buildPrimitive(el, elemUnder))
		}
	}
	return out
}

// buildEnum deserializes by raw value, passing the raw value through
// unchanged on failure. The failure branch is only reachable when a value
// that was valid at validation time stops matching, which is out of scope to
// guard against.
func buildEnum(v any, e *Enum) any {
	if m, ok := v.(EnumMember); ok && e.Contains(m) {
		return m
	}
	if m, ok := e.Deserialize(v); ok {
		return m
	}
	return v
}
