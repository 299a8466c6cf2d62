package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-content/pkg/content"
	"site-content/pkg/handlers"
	"site-content/pkg/logger"
	"site-content/pkg/models"
	"site-content/pkg/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(t *testing.T, opts handlers.RouterOptions) (*gin.Engine, string) {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"posts/hello.md":   "---\ntitle: Hello\ndate: 2024-01-01\npublished: true\n---\nHi\n",
		"posts/draft.md":   "---\ntitle: Draft\ndate: 2024-02-01\npublished: false\n---\n",
		"projects/bad.md":  "---\ntitle: Bad\nsummary: S\npublished: \"yes\"\n---\n",
		"projects/site.md": "---\ntitle: Site\nsummary: S\npublished: true\n---\n",
	}
	for rel, data := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(data), 0644))
	}

	cache := services.NewEntryCache(content.Default(), root, 2, logger.NewNop())
	h := handlers.NewHandler(cache, logger.NewNop())
	return handlers.NewRouter(h, opts), root
}

func do(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListCollections(t *testing.T) {
	t.Parallel()
	r, _ := setupRouter(t, handlers.RouterOptions{})

	w := do(r, http.MethodGet, "/api/collections", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var schemas []models.CollectionSchema
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &schemas))
	require.Len(t, schemas, 2)
	assert.Equal(t, "posts", schemas[0].Name)
	assert.Equal(t, "projects", schemas[1].Name)
}

func TestGetCollection(t *testing.T) {
	t.Parallel()
	r, _ := setupRouter(t, handlers.RouterOptions{})

	w := do(r, http.MethodGet, "/api/collections/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var schema models.CollectionSchema
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &schema))
	assert.Len(t, schema.Fields, 3)
	assert.Equal(t, models.FieldDate, schema.Fields[1].Type)

	w = do(r, http.MethodGet, "/api/collections/events", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidateRecord(t *testing.T) {
	t.Parallel()
	r, _ := setupRouter(t, handlers.RouterOptions{})

	w := do(r, http.MethodPost, "/api/collections/posts/validate", map[string]any{
		"title": "Hello", "date": "2024-01-01", "published": true, "extra": "dropped",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var ok struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.Equal(t, "2024-01-01T00:00:00Z", ok.Data["date"])
	assert.NotContains(t, ok.Data, "extra")

	w = do(r, http.MethodPost, "/api/collections/projects/validate", map[string]any{
		"title": "X", "summary": "Y", "published": "yes",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var failed struct {
		Errors []models.Issue `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failed))
	require.Len(t, failed.Errors, 1)
	assert.Equal(t, "type_mismatch", failed.Errors[0].Kind)
	assert.Equal(t, "published", failed.Errors[0].Field)
	assert.Equal(t, "boolean", failed.Errors[0].Expected)

	w = do(r, http.MethodPost, "/api/collections/events/validate", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/collections/posts/validate", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEntries(t *testing.T) {
	t.Parallel()
	r, _ := setupRouter(t, handlers.RouterOptions{})

	w := do(r, http.MethodGet, "/api/entries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 4)

	w = do(r, http.MethodGet, "/api/entries?collection=posts&published=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var posts []models.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0].Slug)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/entries?published=maybe", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/entries?collection=events", nil).Code)
}

func TestGetEntry(t *testing.T) {
	t.Parallel()
	r, _ := setupRouter(t, handlers.RouterOptions{})

	w := do(r, http.MethodGet, "/api/entry?path=projects/bad.md", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entry models.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	require.Len(t, entry.Issues, 1)
	assert.Equal(t, "published", entry.Issues[0].Field)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/entry?path=posts/none.md", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/entry?path=posts/../../etc/passwd", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/entry?path=posts/../projects/site.md", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/entry?path=posts/../config.ts", nil).Code)
}

func TestCreateEntryAndCheck(t *testing.T) {
	t.Parallel()
	r, root := setupRouter(t, handlers.RouterOptions{})

	w := do(r, http.MethodPost, "/api/check", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		Summary models.Summary `json:"summary"`
		Invalid []models.Entry `json:"invalid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, models.Summary{Total: 4, Invalid: 1}, report.Summary)
	require.Len(t, report.Invalid, 1)
	assert.Equal(t, "projects/bad.md", report.Invalid[0].Path)

	w = do(r, http.MethodPost, "/api/create", map[string]any{
		"collection": "posts", "slug": "fresh", "data": map[string]any{"title": "Fresh"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.FileExists(t, filepath.Join(root, "posts", "fresh.md"))

	w = do(r, http.MethodGet, "/api/entries?collection=posts", nil)
	var posts []models.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	assert.Len(t, posts, 3)

	w = do(r, http.MethodPost, "/api/create", map[string]any{"collection": "posts", "slug": "fresh"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/create", map[string]any{"collection": "posts"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/create", map[string]any{"collection": "posts", "slug": "."})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/create", map[string]any{
		"collection": "posts", "slug": "bad", "data": map[string]any{"published": "yes"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()
	r, _ := setupRouter(t, handlers.RouterOptions{AuthEnabled: true, SessionSecret: "test-secret"})

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/collections", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/auth/callback?state=forged", nil).Code)
}
