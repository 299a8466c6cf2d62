package content

import "site-content/pkg/models"

var projects = models.CollectionSchema{
	Name: "projects",
	Fields: []models.FieldDefinition{
		models.Required("title", models.FieldString),
		models.Required("summary", models.FieldString),
		models.Optional("image", models.FieldString),
		models.Required("published", models.FieldBoolean),
		models.Optional("tags", models.FieldArrayOfString),
	},
}

var posts = models.CollectionSchema{
	Name: "posts",
	Fields: []models.FieldDefinition{
		models.Required("title", models.FieldString),
		models.Required("date", models.FieldDate),
		models.Required("published", models.FieldBoolean),
	},
}

var defaultRegistry = MustRegistry(projects, posts)

// Default returns the registry holding the site's collections.
func Default() *Registry {
	return defaultRegistry
}

// Collections returns the site's collection schemas keyed by name.
func Collections() map[string][]models.FieldDefinition {
	out := make(map[string][]models.FieldDefinition, len(defaultRegistry.names))
	for _, name := range defaultRegistry.names {
		out[name], _ = defaultRegistry.GetSchema(name)
	}
	return out
}

// GetSchema looks up a collection in the default registry.
func GetSchema(name string) ([]models.FieldDefinition, error) {
	return defaultRegistry.GetSchema(name)
}

// Validate checks a record against a collection in the default registry.
func Validate(name string, raw map[string]any) (Record, error) {
	return defaultRegistry.Validate(name, raw)
}
