package tparams

import (
	"fmt"
	"reflect"
	"strings"
)

// ResolveStructKey resolves a struct field's external key for Bind.
// Priority: params:"name" > json tag name > field name; "-" disables the
// field.
func ResolveStructKey(sf reflect.StructField) string {
	if pt := sf.Tag.Get("params"); pt != "" {
		if i := strings.IndexByte(pt, ','); i >= 0 {
			return pt[:i]
		}
		return pt
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

// Bind copies an instance's fields into a struct T by key resolution.
// Nested instances recurse into struct or pointer-to-struct fields; []any
// fields fill slices element by element. Values that are neither assignable
// nor convertible to the target field are left at their zero value.
func Bind[T any](in *Instance) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	rt := rv.Type()
	if rt.Kind() == reflect.Pointer {
		if rt.Elem().Kind() != reflect.Struct {
			return out, fmt.Errorf("tparams: Bind[T] requires a struct T, got %s", rt)
		}
		rv.Set(reflect.New(rt.Elem()))
		rv = rv.Elem()
		rt = rv.Type()
	}
	if rt.Kind() != reflect.Struct {
		return out, fmt.Errorf("tparams: Bind[T] requires a struct T, got %s", rt)
	}
	if err := bindStruct(in, rv); err != nil {
		return out, err
	}
	return out, nil
}

// MustBind is Bind for call sites that treat a mismatch as a bug.
func MustBind[T any](in *Instance) T {
	v, err := Bind[T](in)
	if err != nil {
		panic(err)
	}
	return v
}

func bindStruct(in *Instance, rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := ResolveStructKey(sf)
		if key == "-" || key == "" {
			continue
		}
		val, ok := in.fields[key]
		if !ok || val == nil {
			continue
		}
		if err := assignField(rv.Field(i), val); err != nil {
			return fmt.Errorf("tparams: field %q: %w", key, err)
		}
	}
	return nil
}

func assignField(fv reflect.Value, val any) error {
	if !fv.CanSet() {
		return nil
	}
	ft := fv.Type()

	if inst, ok := val.(*Instance); ok {
		switch ft.Kind() {
		case reflect.Struct:
			return bindStruct(inst, fv)
		case reflect.Interface:
			if reflect.TypeOf(inst).AssignableTo(ft) {
				fv.Set(reflect.ValueOf(inst))
				return nil
			}
		case reflect.Pointer:
			if ft.Elem().Kind() == reflect.Struct {
				p := reflect.New(ft.Elem())
				if err := bindStruct(inst, p.Elem()); err != nil {
					return err
				}
				fv.Set(p)
				return nil
			}
		}
		return fmt.Errorf("cannot bind nested instance into %s", ft)
	}

	if arr, ok := val.([]any); ok && ft.Kind() == reflect.Slice {
		out := reflect.MakeSlice(ft, 0, len(arr))
		for _, el := range arr {
			ev := reflect.New(ft.Elem()).Elem()
			if err := assignField(ev, el); err != nil {
				return err
			}
			out = reflect.Append(out, ev)
		}
		fv.Set(out)
		return nil
	}

	vv := reflect.ValueOf(val)
	switch {
	case vv.Type().AssignableTo(ft):
		fv.Set(vv)
	case vv.Type().ConvertibleTo(ft):
		fv.Set(vv.Convert(ft))
	default:
		return fmt.Errorf("cannot assign %T to %s", val, ft)
	}
	return nil
}
