package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrNoFrontMatter is returned when a file has no recognizable front-matter block.
var ErrNoFrontMatter = errors.New("no front matter found")

// ParseFrontMatter splits a content file into its front-matter record, body and
// format (yaml, toml or json).
func ParseFrontMatter(content []byte) (map[string]interface{}, string, string, error) {
	str := normalizeLineEndings(string(content))
	str = strings.TrimPrefix(str, "\ufeff")

	// YAML (---)
	if raw, body, ok := splitDelimited(str, "---"); ok {
		var fm map[string]interface{}
		if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
			return nil, "", "yaml", fmt.Errorf("parse yaml front matter: %w", err)
		}
		return sanitizeFrontMatter(fm), body, "yaml", nil
	}
	// TOML (+++)
	if raw, body, ok := splitDelimited(str, "+++"); ok {
		var fm map[string]interface{}
		if err := toml.Unmarshal([]byte(raw), &fm); err != nil {
			return nil, "", "toml", fmt.Errorf("parse toml front matter: %w", err)
		}
		return sanitizeFrontMatter(fm), body, "toml", nil
	}
	// JSON ({), optionally followed by a body
	if strings.HasPrefix(strings.TrimSpace(str), "{") {
		dec := json.NewDecoder(strings.NewReader(str))
		var fm map[string]interface{}
		if err := dec.Decode(&fm); err != nil {
			return nil, "", "json", fmt.Errorf("parse json front matter: %w", err)
		}
		body := str[dec.InputOffset():]
		return sanitizeFrontMatter(fm), strings.TrimSpace(body), "json", nil
	}

	return nil, "", "", ErrNoFrontMatter
}

// splitDelimited cuts a block opened by delim on the first line and closed by
// delim alone on a later line.
func splitDelimited(str, delim string) (string, string, bool) {
	if !strings.HasPrefix(str, delim+"\n") {
		return "", "", false
	}
	rest := str[len(delim)+1:]
	if strings.HasPrefix(rest, delim) && (len(rest) == len(delim) || rest[len(delim)] == '\n') {
		return "", strings.TrimSpace(rest[len(delim):]), true
	}
	end := strings.Index(rest, "\n"+delim)
	for end >= 0 {
		after := rest[end+1+len(delim):]
		if after == "" || after[0] == '\n' {
			return rest[:end], strings.TrimSpace(after), true
		}
		next := strings.Index(after, "\n"+delim)
		if next < 0 {
			break
		}
		end += 1 + len(delim) + next
	}
	return "", "", false
}

// ConstructFileContent renders a front-matter record and body back into a content file.
func ConstructFileContent(fm map[string]interface{}, body string, format string) ([]byte, error) {
	if fm == nil {
		fm = map[string]interface{}{}
	}

	var buf bytes.Buffer
	switch format {
	case "yaml":
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(fm); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	case "toml":
		buf.WriteString("+++\n")
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(fm); err != nil {
			return nil, err
		}
		buf.WriteString("+++\n")
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(canonicalizeFrontMatterForJSON(fm)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func sanitizeFrontMatter(fm map[string]interface{}) map[string]interface{} {
	if fm == nil {
		return map[string]interface{}{}
	}
	sanitized := make(map[string]interface{}, len(fm))
	for k, v := range fm {
		sanitized[k] = sanitizeFrontMatterValue(v)
	}
	return sanitized
}

func sanitizeFrontMatterValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return sanitizeFrontMatter(v)
	case map[interface{}]interface{}:
		normalized := make(map[string]interface{}, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = sanitizeFrontMatterValue(inner)
		}
		return normalized
	case []interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = sanitizeFrontMatterValue(v[i])
		}
		return slice
	default:
		return v
	}
}

func canonicalizeFrontMatterForJSON(fm map[string]interface{}) map[string]interface{} {
	canonical := make(map[string]interface{}, len(fm))
	for k, v := range fm {
		canonical[k] = canonicalizeValueForJSON(v)
	}
	return canonical
}

func canonicalizeValueForJSON(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return canonicalizeFrontMatterForJSON(v)
	case []interface{}:
		slice := make([]interface{}, len(v))
		for i := range v {
			slice[i] = canonicalizeValueForJSON(v[i])
		}
		return slice
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}

func normalizeLineEndings(input string) string {
	return strings.ReplaceAll(input, "\r\n", "\n")
}
