package tparams

import (
	"fmt"
	"sync"
)

// Property is a single declared field of a Schema. Descriptors are immutable
// once the schema is finalized.
type Property struct {
	Name       string
	Type       Type
	Optional   bool
	Nilable    bool
	Default    any
	HasDefault bool
	Options    *Constraint
	Check      func(v any) error // declared per-field hook; nil means none
}

// Constraint restricts a field to a value list or a numeric range.
type Constraint struct {
	In  []any
	Min *float64
	Max *float64
}

// FieldOpt configures a property added via Field.
type FieldOpt func(*Property)

// Optional marks the field as skippable when absent.
func Optional() FieldOpt { return func(p *Property) { p.Optional = true } }

// Nilable marks the field as accepting explicit null.
func Nilable() FieldOpt { return func(p *Property) { p.Nilable = true } }

// Default supplies a value applied by the builder when the field is absent.
// A defaulted field is never reported as required.
func Default(v any) FieldOpt {
	return func(p *Property) {
		p.Default = v
		p.HasDefault = true
	}
}

// In constrains the field to the given values.
func In(vals ...any) FieldOpt {
	return func(p *Property) {
		if p.Options == nil {
			p.Options = &Constraint{}
		}
		p.Options.In = vals
	}
}

// Range constrains a numeric field to [min, max].
func Range(min, max float64) FieldOpt {
	return func(p *Property) {
		if p.Options == nil {
			p.Options = &Constraint{}
		}
		p.Options.Min = &min
		p.Options.Max = &max
	}
}

// Check attaches a declared validator hook run on the cast value.
func Check(fn func(v any) error) FieldOpt {
	return func(p *Property) { p.Check = fn }
}

// Schema is a named, ordered set of property descriptors plus the caches
// derived from them. Declaration is additive and happens once, before
// Finalize; request-time use only reads.
type Schema struct {
	name  string
	props []Property
	index map[string]int

	construct func(fields map[string]any) any
	onBuilt   func(v any) error

	mu         sync.RWMutex
	finalized  bool
	deferred   error
	classCache map[string]classification
	planCache  Plan
}

// New starts an empty schema. The default constructor produces *Instance;
// override it with Construct.
func New(name string) *Schema {
	s := &Schema{name: name, index: make(map[string]int)}
	s.construct = func(fields map[string]any) any {
		return &Instance{schema: s, fields: fields}
	}
	return s
}

// Name returns the schema's declared name.
func (s *Schema) Name() string { return s.name }

// AddProperty appends a property descriptor. It fails after Finalize and on
// duplicate or reserved names. Adding a property invalidates this schema's
// derived caches and no other schema's.
func (s *Schema) AddProperty(p Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return fmt.Errorf("tparams: schema %q is finalized; cannot add %q", s.name, p.Name)
	}
	if p.Name == "" || p.Name == BaseKey {
		return fmt.Errorf("tparams: schema %q: invalid property name %q", s.name, p.Name)
	}
	if _, dup := s.index[p.Name]; dup {
		return fmt.Errorf("tparams: schema %q: duplicate property %q", s.name, p.Name)
	}
	s.index[p.Name] = len(s.props)
	s.props = append(s.props, p)
	s.classCache = nil
	s.planCache = nil
	return nil
}

// Field is the chainable form of AddProperty. The first declaration error is
// kept and surfaced by Finalize.
func (s *Schema) Field(name string, t Type, opts ...FieldOpt) *Schema {
	p := Property{Name: name, Type: t}
	for _, opt := range opts {
		opt(&p)
	}
	if err := s.AddProperty(p); err != nil && s.deferred == nil {
		s.deferred = err
	}
	return s
}

// Construct replaces the schema's constructor. fn receives the final field
// map assembled by the builder.
func (s *Schema) Construct(fn func(fields map[string]any) any) *Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finalized {
		s.construct = fn
	}
	return s
}

// OnBuilt attaches the post-construction hook. A non-nil return from the
// hook is surfaced under the "base" key of the error tree.
func (s *Schema) OnBuilt(fn func(v any) error) *Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finalized {
		s.onBuilt = fn
	}
	return s
}

// Finalize freezes the schema. Classification results and the permitted-key
// plan are only cached once a schema is finalized, so cached entries can
// never go stale. Finalize is idempotent.
func (s *Schema) Finalize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deferred != nil {
		return s.deferred
	}
	if s.finalized {
		return nil
	}
	for i := range s.props {
		s.props[i].Check = withConstraint(s.props[i].Check, s.props[i].Options)
	}
	s.finalized = true
	return nil
}

// MustFinalize is Finalize for package-level schema declarations.
func (s *Schema) MustFinalize() *Schema {
	if err := s.Finalize(); err != nil {
		panic(err)
	}
	return s
}

// Finalized reports whether declaration has been frozen.
func (s *Schema) Finalized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalized
}

// Properties returns the descriptors in declaration order.
func (s *Schema) Properties() []Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Property, len(s.props))
	copy(out, s.props)
	return out
}

// Prop looks a descriptor up by name.
func (s *Schema) Prop(name string) (Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.index[name]; ok {
		return s.props[i], true
	}
	return Property{}, false
}

// withConstraint folds a declared Constraint into the field's check chain.
func withConstraint(check func(any) error, c *Constraint) func(any) error {
	if c == nil {
		return check
	}
	cc := func(v any) error {
		if len(c.In) > 0 {
			ok := false
			for _, allowed := range c.In {
				if equalLoose(v, allowed) {
					ok = true
					break
				}
			}
			if !ok {
				return fmt.Errorf("is not included in the list")
			}
		}
		if c.Min != nil || c.Max != nil {
			f, ok := toFloat(v)
			if !ok {
				return fmt.Errorf("is not a number")
			}
			if c.Min != nil && f < *c.Min {
				return fmt.Errorf("must be greater than or equal to %v", *c.Min)
			}
			if c.Max != nil && f > *c.Max {
				return fmt.Errorf("must be less than or equal to %v", *c.Max)
			}
		}
		return nil
	}
	if check == nil {
		return cc
	}
	prev := check
	return func(v any) error {
		if err := cc(v); err != nil {
			return err
		}
		return prev(v)
	}
}

// equalLoose compares a cast value against a declared constraint value,
// tolerating integer width differences.
func equalLoose(a, b any) bool {
	if a == b {
		return true
	}
	fa, oka := toFloat(a)
	fb, okb := toFloat(b)
	return oka && okb && fa == fb
}
