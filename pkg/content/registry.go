// Package content holds the content collection schemas and validates
// front-matter records against them.
package content

import (
	"errors"
	"fmt"
	"sort"

	"site-content/pkg/models"
)

// Registry maps collection names to their schemas. It is immutable once built
// and safe for concurrent use.
type Registry struct {
	schemas map[string]models.CollectionSchema
	names   []string
}

// NewRegistry builds a registry, rejecting duplicate collections, empty
// schemas, duplicate field names and unsupported field types.
func NewRegistry(schemas ...models.CollectionSchema) (*Registry, error) {
	r := &Registry{schemas: make(map[string]models.CollectionSchema, len(schemas))}
	for _, s := range schemas {
		if s.Name == "" {
			return nil, errors.New("collection name is empty")
		}
		if _, dup := r.schemas[s.Name]; dup {
			return nil, fmt.Errorf("collection %q declared twice", s.Name)
		}
		if err := checkFields(s); err != nil {
			return nil, err
		}
		r.schemas[s.Name] = models.CollectionSchema{Name: s.Name, Fields: cloneFields(s.Fields)}
		r.names = append(r.names, s.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// MustRegistry is like NewRegistry but panics on an invalid declaration.
func MustRegistry(schemas ...models.CollectionSchema) *Registry {
	r, err := NewRegistry(schemas...)
	if err != nil {
		panic(err)
	}
	return r
}

func checkFields(s models.CollectionSchema) error {
	seen := make(map[string]bool, len(s.Fields))
	required := 0
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("collection %q: field name is empty", s.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("collection %q: field %q declared twice", s.Name, f.Name)
		}
		if !f.Type.Valid() {
			return fmt.Errorf("collection %q: field %q has unsupported type %q", s.Name, f.Name, f.Type)
		}
		seen[f.Name] = true
		if f.Required {
			required++
		}
	}
	if required == 0 {
		return fmt.Errorf("collection %q has no required fields", s.Name)
	}
	return nil
}

// Names returns the registered collection names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Has reports whether name is a registered collection.
func (r *Registry) Has(name string) bool {
	_, ok := r.schemas[name]
	return ok
}

// GetSchema returns a copy of the ordered field list for a collection.
func (r *Registry) GetSchema(name string) ([]models.FieldDefinition, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, &UnknownCollectionError{Collection: name}
	}
	return cloneFields(s.Fields), nil
}

// Schemas returns every registered schema, sorted by name.
func (r *Registry) Schemas() []models.CollectionSchema {
	out := make([]models.CollectionSchema, 0, len(r.names))
	for _, name := range r.names {
		s := r.schemas[name]
		out = append(out, models.CollectionSchema{Name: s.Name, Fields: cloneFields(s.Fields)})
	}
	return out
}

// Validate checks raw against the collection's schema and returns the
// canonicalized record. Fields not in the schema are dropped. On failure the
// error is an *UnknownCollectionError or a *ValidationError listing every
// issue found.
func (r *Registry) Validate(name string, raw map[string]any) (Record, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, &UnknownCollectionError{Collection: name}
	}

	out := make(Record, len(s.Fields))
	var issues []error
	for _, f := range s.Fields {
		val, present := raw[f.Name]
		if !present || (val == nil && f.Required) {
			if f.Required {
				issues = append(issues, &MissingRequiredFieldError{Collection: name, Field: f.Name})
			}
			continue
		}
		canonical, idx, ok := coerce(f.Type, val)
		if !ok {
			actual := val
			if idx >= 0 {
				actual = val.([]any)[idx]
			}
			issues = append(issues, &TypeMismatchError{
				Collection: name,
				Field:      f.Name,
				Expected:   f.Type,
				Actual:     actual,
				Index:      idx,
			})
			continue
		}
		out[f.Name] = canonical
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Collection: name, Issues: issues}
	}
	return out, nil
}

func cloneFields(fields []models.FieldDefinition) []models.FieldDefinition {
	out := make([]models.FieldDefinition, len(fields))
	copy(out, fields)
	return out
}
