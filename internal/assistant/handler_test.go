package assistant

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub/internal/nlp"
	"bookhub/pkg/models"
)

type fakeReloader struct{ n int }

func (f fakeReloader) Reload(context.Context) (int, error) { return f.n, nil }

func newTestServer(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestAssistant(t, testBooks()), NewHub(), fakeReloader{n: 5})
	r := gin.New()
	h.RegisterRoutes(r.Group(""))
	h.RegisterAdminRoutes(r.Group(""))
	return r, h
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Chat(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/chat", gin.H{"message": "Gosto de livros de terror"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, nlp.IntentGenre, resp.Intent)
	assert.Len(t, resp.RecommendedBooks, 2)

	w = doJSON(t, r, http.MethodPost, "/chat", gin.H{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/chat", gin.H{"message": strings.Repeat("a", 2001)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_StatsAndReset(t *testing.T) {
	r, _ := newTestServer(t)
	doJSON(t, r, http.MethodPost, "/chat", gin.H{"message": "bom dia"})

	w := doJSON(t, r, http.MethodGet, "/ai/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var s StatsReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, 1, s.TotalRequests)
	assert.Equal(t, 1, s.UnknownIntents)

	w = doJSON(t, r, http.MethodPost, "/ai/stats/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), msgStatsReset)
}

func TestHandler_Configure(t *testing.T) {
	r, h := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/ai/configure?confidence_threshold=0.5", gin.H{"advanced_processing": false})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Message string               `json:"message"`
		Current nlp.SettingsSnapshot `json:"current_settings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, msgConfigured, body.Message)
	assert.Equal(t, nlp.SettingsSnapshot{ConfidenceThreshold: 0.5, AdvancedProcessing: false}, body.Current)
	assert.Equal(t, 0.5, h.Assistant.Pipeline().Settings().ConfidenceThreshold())

	w = doJSON(t, r, http.MethodPost, "/ai/configure?confidence_threshold=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_TestProcessing(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/ai/test-processing/estou%20triste", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var rep ProcessingReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, "estou triste", rep.Message)
	assert.Equal(t, nlp.IntentMood, rep.Hybrid.Name)
}

func TestHandler_Reload(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/admin/catalog/reload", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"books":5}`, w.Body.String())
}

func TestWebSocket_ReplyAndBroadcast(t *testing.T) {
	r, h := newTestServer(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat?user_id=ana"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"message":"estou triste"}`)))
	var ev Event
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, EventReply, ev.Type)
	require.NotNil(t, ev.Reply)
	assert.Equal(t, nlp.IntentMood, ev.Reply.Intent)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("livros de fantasia")))
	_, payload, err = conn.ReadMessage()
	require.NoError(t, err)
	ev = Event{}
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, nlp.IntentGenre, ev.Reply.Intent)

	assert.Equal(t, 1, h.Hub.Len())
	h.Hub.Broadcast(Event{Type: EventNotice, Text: "catálogo atualizado"})
	_, payload, err = conn.ReadMessage()
	require.NoError(t, err)
	ev = Event{}
	require.NoError(t, json.Unmarshal(payload, &ev))
	assert.Equal(t, EventNotice, ev.Type)
	assert.Equal(t, "catálogo atualizado", ev.Text)
}
