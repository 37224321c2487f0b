// Package schemadef loads named schemas and enums from YAML definition
// files, producing finalized tparams schemas. It exists for services and
// tools that keep request shapes in configuration rather than code.
package schemadef

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/xrage/tparams"
)

// File is the top-level YAML document.
type File struct {
	Enums   []EnumDef   `yaml:"enums"`
	Schemas []SchemaDef `yaml:"schemas"`
}

// EnumDef declares an enumeration and its members.
type EnumDef struct {
	Name    string      `yaml:"name"`
	Members []MemberDef `yaml:"members"`
}

// MemberDef is a single enum member; Value is the raw wire value.
type MemberDef struct {
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
}

// SchemaDef declares a schema and its properties.
type SchemaDef struct {
	Name       string        `yaml:"name"`
	Properties []PropertyDef `yaml:"properties"`
}

// PropertyDef declares one field. Type is one of string, integer, float,
// bool, date, time, datetime, array, object, enum. Arrays set Of to the
// element type; object references name a schema in the same file via Schema,
// enum references via Enum.
type PropertyDef struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Of       string   `yaml:"of"`
	Schema   string   `yaml:"schema"`
	Enum     string   `yaml:"enum"`
	Optional bool     `yaml:"optional"`
	Nilable  bool     `yaml:"nilable"`
	Default  any      `yaml:"default"`
	In       []any    `yaml:"in"`
	Min      *float64 `yaml:"min"`
	Max      *float64 `yaml:"max"`
}

// Load reads a YAML definition document and returns the finalized schemas by
// name. Schemas may reference each other in any order within the same file.
func Load(r io.Reader) (map[string]*tparams.Schema, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return LoadBytes(b)
}

// LoadBytes is Load over a byte slice.
func LoadBytes(b []byte) (map[string]*tparams.Schema, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("schemadef: %w", err)
	}

	enums := make(map[string]*tparams.Enum, len(f.Enums))
	for _, ed := range f.Enums {
		if ed.Name == "" {
			return nil, fmt.Errorf("schemadef: enum without a name")
		}
		members := make([]tparams.EnumMember, 0, len(ed.Members))
		for _, md := range ed.Members {
			members = append(members, tparams.EnumMember{Name: md.Name, Raw: md.Value})
		}
		enums[ed.Name] = tparams.NewEnum(ed.Name, members...)
	}

	// Two passes so properties can reference schemas declared later.
	schemas := make(map[string]*tparams.Schema, len(f.Schemas))
	for _, sd := range f.Schemas {
		if sd.Name == "" {
			return nil, fmt.Errorf("schemadef: schema without a name")
		}
		if _, dup := schemas[sd.Name]; dup {
			return nil, fmt.Errorf("schemadef: duplicate schema %q", sd.Name)
		}
		schemas[sd.Name] = tparams.New(sd.Name)
	}
	for _, sd := range f.Schemas {
		s := schemas[sd.Name]
		for _, pd := range sd.Properties {
			t, err := resolveType(pd, schemas, enums)
			if err != nil {
				return nil, fmt.Errorf("schemadef: schema %q, property %q: %w", sd.Name, pd.Name, err)
			}
			p := tparams.Property{
				Name:       pd.Name,
				Type:       t,
				Optional:   pd.Optional,
				Nilable:    pd.Nilable,
				Default:    pd.Default,
				HasDefault: pd.Default != nil,
			}
			if len(pd.In) > 0 || pd.Min != nil || pd.Max != nil {
				p.Options = &tparams.Constraint{In: pd.In, Min: pd.Min, Max: pd.Max}
			}
			if err := s.AddProperty(p); err != nil {
				return nil, err
			}
		}
	}
	for _, s := range schemas {
		if err := s.Finalize(); err != nil {
			return nil, err
		}
	}
	return schemas, nil
}

func resolveType(pd PropertyDef, schemas map[string]*tparams.Schema, enums map[string]*tparams.Enum) (tparams.Type, error) {
	t, err := scalarOrRef(pd.Type, pd, schemas, enums)
	if err != nil {
		return tparams.Type{}, err
	}
	if pd.Type == "array" {
		elem, err := scalarOrRef(pd.Of, pd, schemas, enums)
		if err != nil {
			return tparams.Type{}, err
		}
		t = tparams.ArrayOf(elem)
	}
	return t, nil
}

func scalarOrRef(name string, pd PropertyDef, schemas map[string]*tparams.Schema, enums map[string]*tparams.Enum) (tparams.Type, error) {
	switch name {
	case "string":
		return tparams.String(), nil
	case "integer":
		return tparams.Integer(), nil
	case "float":
		return tparams.Float(), nil
	case "bool", "boolean":
		return tparams.Bool(), nil
	case "date":
		return tparams.Date(), nil
	case "time":
		return tparams.Time(), nil
	case "datetime":
		return tparams.DateTime(), nil
	case "array":
		return tparams.Type{}, nil // element resolved by the caller
	case "object":
		ref, ok := schemas[pd.Schema]
		if !ok {
			return tparams.Type{}, fmt.Errorf("unknown schema reference %q", pd.Schema)
		}
		return tparams.Object(ref), nil
	case "enum":
		ref, ok := enums[pd.Enum]
		if !ok {
			return tparams.Type{}, fmt.Errorf("unknown enum reference %q", pd.Enum)
		}
		return tparams.EnumOf(ref), nil
	}
	return tparams.Type{}, fmt.Errorf("unknown type %q", name)
}
