package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontMatter_YAML(t *testing.T) {
	t.Parallel()

	src := "---\r\ntitle: Hello\r\npublished: true\r\ntags:\r\n  - go\r\n  - web\r\n---\r\n\r\n# Body\r\n\r\nText with --- inside\r\n"
	fm, body, format, err := ParseFrontMatter([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "yaml", format)
	assert.Equal(t, "Hello", fm["title"])
	assert.Equal(t, true, fm["published"])
	assert.Equal(t, []interface{}{"go", "web"}, fm["tags"])
	assert.Equal(t, "# Body\n\nText with --- inside", body)
}

func TestParseFrontMatter_TOML(t *testing.T) {
	t.Parallel()

	src := "+++\ntitle = \"Hello\"\ndate = 2024-01-01\npublished = false\n+++\nbody\n"
	fm, body, format, err := ParseFrontMatter([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "toml", format)
	assert.Equal(t, "Hello", fm["title"])
	assert.NotNil(t, fm["date"])
	assert.Equal(t, "body", body)
}

func TestParseFrontMatter_JSONWithBody(t *testing.T) {
	t.Parallel()

	src := "{\n  \"title\": \"Hello\",\n  \"published\": true\n}\n\nSome body\n"
	fm, body, format, err := ParseFrontMatter([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "json", format)
	assert.Equal(t, "Hello", fm["title"])
	assert.Equal(t, "Some body", body)
}

func TestParseFrontMatter_Errors(t *testing.T) {
	t.Parallel()

	_, _, _, err := ParseFrontMatter([]byte("# just markdown\n"))
	assert.ErrorIs(t, err, ErrNoFrontMatter)

	_, _, _, err = ParseFrontMatter([]byte("---\ntitle: Hello\nno closing delimiter\n"))
	assert.ErrorIs(t, err, ErrNoFrontMatter)

	_, _, format, err := ParseFrontMatter([]byte("---\ntitle: [unclosed\n---\n"))
	assert.Error(t, err)
	assert.Equal(t, "yaml", format)
}

func TestParseFrontMatter_EmptyBlock(t *testing.T) {
	t.Parallel()

	fm, body, format, err := ParseFrontMatter([]byte("---\n---\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "yaml", format)
	assert.Empty(t, fm)
	assert.Equal(t, "body", body)
}

func TestConstructFileContent_RoundTrip(t *testing.T) {
	t.Parallel()

	fm := map[string]interface{}{"title": "Hello", "published": true}
	for _, format := range []string{"yaml", "toml", "json"} {
		data, err := ConstructFileContent(fm, "body text", format)
		require.NoError(t, err, format)

		parsed, body, gotFormat, err := ParseFrontMatter(data)
		require.NoError(t, err, format)
		assert.Equal(t, format, gotFormat)
		assert.Equal(t, "Hello", parsed["title"], format)
		assert.Equal(t, true, parsed["published"], format)
		assert.Equal(t, "body text", body, format)
	}

	_, err := ConstructFileContent(fm, "", "xml")
	assert.Error(t, err)
}

func TestSanitizeFrontMatter_NestedInterfaceMaps(t *testing.T) {
	t.Parallel()

	fm := sanitizeFrontMatter(map[string]interface{}{
		"meta": map[interface{}]interface{}{1: "one", "list": []interface{}{map[interface{}]interface{}{"k": "v"}}},
	})
	meta, ok := fm["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "one", meta["1"])
	assert.Equal(t, []interface{}{map[string]interface{}{"k": "v"}}, meta["list"])
}

func TestCanonicalizeValueForJSON_Time(t *testing.T) {
	t.Parallel()

	got := canonicalizeValueForJSON(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-01T00:00:00Z", got)
}
