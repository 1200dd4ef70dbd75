package toon

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// FieldType enumerates the scalar and container types a schema field can take.
type FieldType int

const (
	TypeString FieldType = iota
	TypeNumber
	TypeBool
	TypeNull
	TypeDate
	TypeObject
	TypeArray
)

var fieldTypeNames = map[FieldType]string{
	TypeString: "string",
	TypeNumber: "number",
	TypeBool:   "boolean",
	TypeNull:   "null",
	TypeDate:   "date",
	TypeObject: "object",
	TypeArray:  "array",
}

// String returns the type name as written in schema files.
func (t FieldType) String() string {
	if s, ok := fieldTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

func parseFieldType(s string) (FieldType, error) {
	for t, name := range fieldTypeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeString, fmt.Errorf("toon: unknown field type %q", s)
}

// MarshalYAML encodes the type as its name.
func (t FieldType) MarshalYAML() (any, error) { return t.String(), nil }

// UnmarshalYAML decodes the type from its name.
func (t *FieldType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	p, err := parseFieldType(s)
	if err != nil {
		return err
	}
	*t = p
	return nil
}

// MarshalJSON encodes the type as its name.
func (t FieldType) MarshalJSON() ([]byte, error) { return gojson.Marshal(t.String()) }

// UnmarshalJSON decodes the type from its name.
func (t *FieldType) UnmarshalJSON(b []byte) error {
	var s string
	if err := gojson.Unmarshal(b, &s); err != nil {
		return err
	}
	p, err := parseFieldType(s)
	if err != nil {
		return err
	}
	*t = p
	return nil
}

// SchemaField describes one record field: its name, type and nullability.
// Object fields carry their sub-fields; array fields carry an element
// descriptor (Elem.Name is empty for scalar elements).
type SchemaField struct {
	Name     string        `yaml:"name" json:"name"`
	Type     FieldType     `yaml:"type" json:"type"`
	Nullable bool          `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Fields   []SchemaField `yaml:"fields,omitempty" json:"fields,omitempty"`
	Elem     *SchemaField  `yaml:"elem,omitempty" json:"elem,omitempty"`
}

// Schema describes a record shape: ordered fields with types and nullability.
// Field order is authoritative for column position. A Schema is treated as
// immutable once an encode or decode pass begins.
type Schema struct {
	Fields []SchemaField `yaml:"fields" json:"fields"`

	index map[string]int
}

// NewSchema builds a schema over the given fields.
func NewSchema(fields ...SchemaField) *Schema {
	return &Schema{Fields: fields}
}

// Field returns the named field, or nil if the schema does not define it.
func (s *Schema) Field(name string) *SchemaField {
	if s == nil {
		return nil
	}
	if s.index == nil {
		s.index = make(map[string]int, len(s.Fields))
		for i, f := range s.Fields {
			s.index[f.Name] = i
		}
	}
	if i, ok := s.index[name]; ok {
		return &s.Fields[i]
	}
	return nil
}

// FieldNames returns the field names in column order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// MarshalYAML serializes the schema for schema definition files.
func (s *Schema) MarshalYAML() (any, error) {
	return struct {
		Fields []SchemaField `yaml:"fields"`
	}{Fields: s.Fields}, nil
}

// SchemaToYAML renders a schema as a YAML document.
func SchemaToYAML(s *Schema) ([]byte, error) { return yaml.Marshal(s) }

// ParseSchemaYAML loads a schema from a YAML document.
func ParseSchemaYAML(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SchemaToJSON renders a schema as JSON.
func SchemaToJSON(s *Schema) ([]byte, error) { return gojson.Marshal(s) }

// ParseSchemaJSON loads a schema from JSON.
func ParseSchemaJSON(data []byte) (*Schema, error) {
	var s Schema
	if err := gojson.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
