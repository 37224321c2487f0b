package tparams

import "github.com/xrage/tparams/i18n"

// Validate walks input against the schema in property declaration order and
// returns the resulting error tree. An empty tree means the input conforms.
// Validate never mutates input and builds a fresh tree on every call; empty
// subtrees are pruned, never attached.
func Validate(input map[string]any, s *Schema) ErrorTree {
	tree := ErrorTree{}
	for _, prop := range s.Properties() {
		v, present := input[prop.Name]
		if !present || v == nil {
			if prop.Optional || prop.HasDefault || prop.Nilable {
				continue
			}
			tree.Add(prop.Name, i18n.T("required", nil))
			continue
		}

		cat, under := s.classifyField(prop.Name, prop.Type)
		switch cat {
		case CategoryArray:
			arr, ok := v.([]any)
			if !ok {
				tree.Add(prop.Name, i18n.T("not_array", nil))
				continue
			}
			tree.Attach(prop.Name, validateElements(arr, under))
		case CategoryNestedSchema:
			m, ok := v.(map[string]any)
			if !ok {
				tree.Add(prop.Name, i18n.T("invalid", nil))
				continue
			}
			tree.Attach(prop.Name, Validate(m, under.Schema))
		default: // primitive, enumeration
			cv, err := Cast(v, under)
			if err != nil {
				tree.Add(prop.Name, i18n.T("invalid", nil))
				continue
			}
			if prop.Check != nil {
				if err := prop.Check(cv); err != nil {
					tree.Add(prop.Name, err.Error())
				}
			}
		}
	}
	return tree
}

// validateElements checks each non-nil array element by index. Nested-schema
// elements recurse; everything else is cast-checked against the element
// type. Nil elements are skipped, not errors. Note that a String element
// type can never produce an element error here: string casting is total.
func validateElements(arr []any, elem Type) IndexErrors {
	elemCat, elemUnder := Classify(elem)
	idx := IndexErrors{}
	for i, el := range arr {
		if el == nil {
			continue
		}
		if elemCat == CategoryNestedSchema {
			m, ok := el.(map[string]any)
			if !ok {
				idx[i] = []string{i18n.T("invalid", nil)}
				continue
			}
			if sub := Validate(m, elemUnder.Schema); !sub.Empty() {
				idx[i] = sub
			}
			continue
		}
		if _, err := Cast(el, elemUnder); err != nil {
			idx[i] = []string{err.Error()}
		}
	}
	return idx
}
