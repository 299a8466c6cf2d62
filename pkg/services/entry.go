package services

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"site-content/pkg/content"
	"site-content/pkg/models"
)

// ContentExtensions are the file extensions treated as collection entries.
var ContentExtensions = []string{".md", ".mdx"}

// ErrInvalidPath is returned for paths escaping the content root.
var ErrInvalidPath = errors.New("invalid content path")

func SafeJoin(root, target string) (string, error) {
	cleanTarget := filepath.Clean(filepath.FromSlash(target))
	if cleanTarget == "." || filepath.IsAbs(cleanTarget) || cleanTarget == ".." ||
		strings.HasPrefix(cleanTarget, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, target)
	}
	return filepath.Join(root, cleanTarget), nil
}

func isContentFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ContentExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// SplitEntryPath derives collection and slug from a path relative to the content root.
// "posts/2024/hello.md" is collection "posts", slug "2024/hello".
func SplitEntryPath(relPath string) (string, string, error) {
	rel := filepath.ToSlash(relPath)
	collection, rest, ok := strings.Cut(rel, "/")
	if !ok || collection == "" || rest == "" {
		return "", "", fmt.Errorf("%w: %q is not inside a collection directory", ErrInvalidPath, relPath)
	}
	slug := strings.TrimSuffix(rest, path.Ext(rest))
	return collection, slug, nil
}

// checkEntryPath accepts only canonical <collection>/<slug>.{md,mdx} paths
// inside a registered collection, with no "_" or "." prefixed segments.
func checkEntryPath(reg *content.Registry, relPath string) (string, string, string, error) {
	rel := filepath.ToSlash(relPath)
	if rel == "" || path.Clean(rel) != rel || path.IsAbs(rel) || !isContentFile(rel) {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidPath, relPath)
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." || ignored(seg) {
			return "", "", "", fmt.Errorf("%w: %q", ErrInvalidPath, relPath)
		}
	}
	collection, slug, err := SplitEntryPath(rel)
	if err != nil {
		return "", "", "", err
	}
	if !reg.Has(collection) {
		return "", "", "", fmt.Errorf("%w: %q is not a registered collection", ErrInvalidPath, collection)
	}
	return rel, collection, slug, nil
}

// ReadEntry reads and validates one content file. Front-matter and schema
// problems are recorded on the entry; only I/O and path failures are returned as errors.
func ReadEntry(reg *content.Registry, root, relPath string) (models.Entry, error) {
	rel, collection, slug, err := checkEntryPath(reg, relPath)
	if err != nil {
		return models.Entry{}, err
	}
	fullPath, err := SafeJoin(root, rel)
	if err != nil {
		return models.Entry{}, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return models.Entry{}, fmt.Errorf("read entry %s: %w", rel, err)
	}
	return BuildEntry(reg, collection, slug, rel, data), nil
}

// BuildEntry parses and validates raw file content for a collection entry.
func BuildEntry(reg *content.Registry, collection, slug, relPath string, data []byte) models.Entry {
	entry := models.Entry{
		Collection: collection,
		Slug:       slug,
		Path:       relPath,
	}

	fm, body, format, err := ParseFrontMatter(data)
	entry.Format = format
	if err != nil {
		entry.Body = strings.TrimSpace(normalizeLineEndings(string(data)))
		entry.Issues = []models.Issue{{Kind: "frontmatter", Message: err.Error()}}
		return entry
	}
	entry.Body = body

	rec, err := reg.Validate(collection, fm)
	if err != nil {
		entry.Issues = content.Issues(err)
		return entry
	}
	entry.Data = rec
	return entry
}

// NewEntryContent scaffolds a content file for a collection. Every required
// field gets an override or a type default; optional fields are written only
// when overridden. The result is validated before it is returned.
func NewEntryContent(reg *content.Registry, collection string, overrides map[string]interface{}, now time.Time) ([]byte, error) {
	fields, err := reg.GetSchema(collection)
	if err != nil {
		return nil, err
	}

	fm := make(map[string]interface{}, len(fields))
	for _, field := range fields {
		if val, ok := overrides[field.Name]; ok {
			fm[field.Name] = val
			continue
		}
		if !field.Required {
			continue
		}
		switch field.Type {
		case models.FieldDate:
			fm[field.Name] = now.Format("2006-01-02")
		case models.FieldBoolean:
			fm[field.Name] = false
		case models.FieldArrayOfString:
			fm[field.Name] = []interface{}{}
		default:
			fm[field.Name] = ""
		}
	}

	if _, err := reg.Validate(collection, fm); err != nil {
		return nil, err
	}
	return ConstructFileContent(fm, "", "yaml")
}

// CreateEntry writes a new scaffolded entry at <root>/<collection>/<slug>.md.
func CreateEntry(reg *content.Registry, root, collection, slug string, overrides map[string]interface{}) (string, error) {
	if !reg.Has(collection) {
		return "", &content.UnknownCollectionError{Collection: collection}
	}
	relPath := path.Join(collection, strings.TrimSuffix(slug, path.Ext(slug))+".md")
	if _, _, _, err := checkEntryPath(reg, relPath); err != nil || !strings.HasPrefix(relPath, collection+"/") {
		return "", fmt.Errorf("%w: slug %q", ErrInvalidPath, slug)
	}
	for _, seg := range strings.Split(slug, "/") {
		if seg == "" || ignored(seg) {
			return "", fmt.Errorf("%w: slug %q", ErrInvalidPath, slug)
		}
	}
	fullPath, err := SafeJoin(root, relPath)
	if err != nil {
		return "", err
	}

	data, err := NewEntryContent(reg, collection, overrides, time.Now())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("create entry %s: %w", relPath, err)
	}
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("create entry %s: %w", relPath, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("create entry %s: %w", relPath, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("create entry %s: %w", relPath, err)
	}
	return relPath, nil
}
