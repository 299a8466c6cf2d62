package models

// FieldType is the value type a front-matter field must carry.
type FieldType string

const (
	FieldString        FieldType = "string"
	FieldBoolean       FieldType = "boolean"
	FieldDate          FieldType = "date"
	FieldArrayOfString FieldType = "array<string>"
)

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldString, FieldBoolean, FieldDate, FieldArrayOfString:
		return true
	}
	return false
}

// CollectionSchema is the ordered list of fields every entry of a collection must satisfy.
type CollectionSchema struct {
	Name   string            `json:"name" yaml:"name"`
	Fields []FieldDefinition `json:"fields" yaml:"fields"`
}

type FieldDefinition struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Required bool      `json:"required" yaml:"required"`
}

// Required declares a field that must be present and non-null.
func Required(name string, t FieldType) FieldDefinition {
	return FieldDefinition{Name: name, Type: t, Required: true}
}

// Optional declares a field that may be omitted.
func Optional(name string, t FieldType) FieldDefinition {
	return FieldDefinition{Name: name, Type: t}
}
