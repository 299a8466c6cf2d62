package models

// Entry is one content file of a collection after its front-matter has been validated.
type Entry struct {
	Collection string         `json:"collection"`
	Slug       string         `json:"slug"`
	Path       string         `json:"path"`             // Relative to the content root
	Format     string         `json:"format,omitempty"` // yaml, toml, json
	Data       map[string]any `json:"data,omitempty"`   // Validated record, nil when invalid
	Body       string         `json:"body,omitempty"`
	Issues     []Issue        `json:"issues,omitempty"`
	IsDirty    bool           `json:"is_dirty"`
}

// Valid reports whether the entry passed validation.
func (e Entry) Valid() bool {
	return len(e.Issues) == 0
}

// Issue is a single problem found in an entry's front-matter.
type Issue struct {
	Kind     string `json:"kind"` // unknown_collection, missing_required_field, type_mismatch, frontmatter
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message"`
}

// Summary counts the result of loading a content tree.
type Summary struct {
	Total   int `json:"total"`
	Invalid int `json:"invalid"`
}
