// Package tparams converts untrusted, loosely-typed request data into
// instances of a declared schema: classify the declared types, restrict the
// input to the permitted keys, validate it into a path-addressed error tree,
// and build the typed result.
package tparams

import "github.com/xrage/tparams/params"

// BuildFromParams runs the full pipeline: compute the schema's permitted-key
// plan, ask the container to restrict itself to it, validate the restricted
// input, and build the typed instance. A non-empty error tree fails with a
// *ValidationError carrying code "bad_request"; a failing post-construction
// hook is reported the same way under the "base" key.
func BuildFromParams(s *Schema, p params.Params) (any, error) {
	restricted := p.Permit(FilterExpr(s.Plan()))
	input := restricted.Map()
	if tree := Validate(input, s); !tree.Empty() {
		return nil, badRequest(tree)
	}
	out := Build(input, s)
	if s.onBuilt != nil {
		if err := s.onBuilt(out); err != nil {
			tree := ErrorTree{}
			tree.Add(BaseKey, err.Error())
			return nil, badRequest(tree)
		}
	}
	return out, nil
}

// BindFromParams is BuildFromParams followed by Bind into a caller struct.
// It requires the schema's default constructor.
func BindFromParams[T any](s *Schema, p params.Params) (T, error) {
	var zero T
	v, err := BuildFromParams(s, p)
	if err != nil {
		return zero, err
	}
	inst, ok := v.(*Instance)
	if !ok {
		return zero, &ValidationError{Code: CodeBadRequest, Message: "schema uses a custom constructor; bind manually"}
	}
	return Bind[T](inst)
}
