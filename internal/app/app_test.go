package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub/internal/config"
	"bookhub/internal/nlp"
)

const seedDoc = `{"books": [
  {"id": 1, "title": "It: A Coisa", "author": "Stephen King", "genre": "Terror", "year": 1986, "bestseller": true, "rating": 4.5},
  {"id": 2, "title": "O Iluminado", "author": "Stephen King", "genre": "Terror", "year": 1977, "bestseller": true, "rating": 4.7},
  {"id": 3, "title": "Dom Casmurro", "author": "Machado de Assis", "genre": "Literatura Brasileira", "year": 1899, "rating": 4.4}
]}`

const adminPassword = "correct-horse"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	seed := filepath.Join(dir, "books.json")
	require.NoError(t, os.WriteFile(seed, []byte(seedDoc), 0o644))

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(dir, "bookhub.db")
	cfg.Catalog.SeedPath = seed
	cfg.Auth.AdminPassword = adminPassword
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func loginAdmin(t *testing.T, r http.Handler) string {
	t.Helper()
	code, body := do(t, r, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "admin",
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, code)
	return body["token"].(string)
}

func TestNew_SeedsEmptyCatalogOnce(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg)
	assert.Equal(t, 3, a.Catalog.Snapshot().Len())

	// A seed change is ignored once the table has rows.
	require.NoError(t, os.WriteFile(cfg.Catalog.SeedPath, []byte(`{"books": []}`), 0o644))
	require.NoError(t, a.Close())
	b := newTestApp(t, cfg)
	assert.Equal(t, 3, b.Catalog.Snapshot().Len())
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := newTestApp(t, testConfig(t)).Router()

	code, body := do(t, r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, Version, body["version"])

	code, body = do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(3), body["total_books"])

	code, body = do(t, r, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])

	code, _ = do(t, r, http.MethodGet, "/books/genre/terror", "", nil)
	assert.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookhub_catalog_books")
}

func TestRouter_Chat(t *testing.T) {
	r := newTestApp(t, testConfig(t)).Router()

	code, body := do(t, r, http.MethodPost, "/chat", "", map[string]string{
		"message": "Gosto de livros de terror",
		"user_id": "leitor-1",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, nlp.IntentGenre, body["intent"])
	books := body["recommended_books"].([]any)
	require.Len(t, books, 2)
	assert.Equal(t, float64(2), books[0].(map[string]any)["id"])

	code, _ = do(t, r, http.MethodPost, "/chat", "", map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_HistoryNeedsStaffToken(t *testing.T) {
	r := newTestApp(t, testConfig(t)).Router()

	code, _ := do(t, r, http.MethodPost, "/chat", "", map[string]string{
		"message": "estou muito deprimido hoje",
		"user_id": "alice",
	})
	require.Equal(t, http.StatusOK, code)

	code, body := do(t, r, http.MethodGet, "/chat/history/alice", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Nil(t, body["items"])

	code, _ = do(t, r, http.MethodGet, "/chat/history/alice", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	token := loginAdmin(t, r)
	code, body = do(t, r, http.MethodGet, "/chat/history/alice", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["total"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, nlp.IntentMood, items[0].(map[string]any)["intent"])
}

func TestRouter_AdminRoutesNeedAdminToken(t *testing.T) {
	r := newTestApp(t, testConfig(t)).Router()

	code, _ := do(t, r, http.MethodPost, "/ai/configure", "", map[string]any{"confidence_threshold": 0.5})
	assert.Equal(t, http.StatusUnauthorized, code)

	token := loginAdmin(t, r)

	code, body := do(t, r, http.MethodPost, "/ai/configure", token, map[string]any{"confidence_threshold": 0.5})
	require.Equal(t, http.StatusOK, code)
	settings := body["current_settings"].(map[string]any)
	assert.Equal(t, 0.5, settings["confidence_threshold"])

	code, body = do(t, r, http.MethodPost, "/admin/catalog/reload", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), body["books"])
}

func TestRouter_RateLimitsChat(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Requests = 2
	r := newTestApp(t, cfg).Router()

	for i := 0; i < 2; i++ {
		code, _ := do(t, r, http.MethodPost, "/chat", "", map[string]string{"message": "oi"})
		require.Equal(t, http.StatusOK, code)
	}
	code, _ := do(t, r, http.MethodPost, "/chat", "", map[string]string{"message": "oi"})
	assert.Equal(t, http.StatusTooManyRequests, code)

	// Other routes are not limited.
	code, _ = do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestNewPipeline_LexiconOverride(t *testing.T) {
	cfg := config.Default().NLP
	cfg.LexiconPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewPipeline(cfg)
	assert.Error(t, err)

	cfg.LexiconPath = ""
	p, err := NewPipeline(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.3, p.Settings().ConfidenceThreshold())
}
