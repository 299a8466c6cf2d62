package content

import (
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"site-content/pkg/models"
)

// dateLayouts are tried in order for string dates. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// coerce converts a raw front-matter value to the canonical Go type of t.
// For array fields a failing element index is returned, otherwise -1.
func coerce(t models.FieldType, raw any) (any, int, bool) {
	switch t {
	case models.FieldString:
		s, ok := raw.(string)
		return s, -1, ok
	case models.FieldBoolean:
		b, ok := raw.(bool)
		return b, -1, ok
	case models.FieldDate:
		d, ok := coerceDate(raw)
		return d, -1, ok
	case models.FieldArrayOfString:
		return coerceStrings(raw)
	}
	return nil, -1, false
}

func coerceDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case toml.LocalDate:
		return v.AsTime(time.UTC), true
	case toml.LocalDateTime:
		return v.AsTime(time.UTC), true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

func coerceStrings(raw any) (any, int, bool) {
	switch v := raw.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, -1, true
	case []any:
		out := make([]string, len(v))
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, i, false
			}
			out[i] = s
		}
		return out, -1, true
	}
	return nil, -1, false
}
