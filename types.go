package tparams

// Kind enumerates the declared type kinds understood by the caster.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindDate
	KindTime
	KindDateTime
	KindArray
	KindObject
	KindEnum
)

// String returns the declared-type name used in casting error messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Boolean"
	case KindDate:
		return "Date"
	case KindTime:
		return "Time"
	case KindDateTime:
		return "DateTime"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	case KindEnum:
		return "Enum"
	}
	return "Unknown"
}

// Type describes a declared field type. Composite kinds carry exactly one of
// Elem, Schema, or Enum; Optional marks the "T or null" union wrapper, which
// classification unwraps to the non-null arm.
type Type struct {
	Kind     Kind
	Elem     *Type   // element type when Kind == KindArray
	Schema   *Schema // nested schema when Kind == KindObject
	Enum     *Enum   // member set when Kind == KindEnum
	Optional bool
}

// String returns the string type.
func String() Type { return Type{Kind: KindString} }

// Integer returns the integer type.
func Integer() Type { return Type{Kind: KindInteger} }

// Float returns the float type.
func Float() Type { return Type{Kind: KindFloat} }

// Bool returns the boolean type.
func Bool() Type { return Type{Kind: KindBool} }

// Date returns the calendar-date type.
func Date() Type { return Type{Kind: KindDate} }

// Time returns the time-of-day type.
func Time() Type { return Type{Kind: KindTime} }

// DateTime returns the timestamp type.
func DateTime() Type { return Type{Kind: KindDateTime} }

// ArrayOf returns an array type over the given element type.
func ArrayOf(elem Type) Type { return Type{Kind: KindArray, Elem: &elem} }

// Object returns a nested-schema type referencing s.
func Object(s *Schema) Type { return Type{Kind: KindObject, Schema: s} }

// EnumOf returns an enumeration type referencing e.
func EnumOf(e *Enum) Type { return Type{Kind: KindEnum, Enum: e} }

// OptionalOf wraps t in a "t or null" union. Classification sees through the
// wrapper; presence handling stays with the validator.
func OptionalOf(t Type) Type {
	t.Optional = true
	return t
}

// Category is the derived classification of a declared type: a closed set of
// tags decided at classification time, never declared directly.
type Category int

const (
	CategoryPrimitive Category = iota
	CategoryArray
	CategoryNestedSchema
	CategoryEnumeration
)

// String returns the category name, mostly for debug output.
func (c Category) String() string {
	switch c {
	case CategoryPrimitive:
		return "primitive"
	case CategoryArray:
		return "array"
	case CategoryNestedSchema:
		return "nested_schema"
	case CategoryEnumeration:
		return "enumeration"
	}
	return "unknown"
}
