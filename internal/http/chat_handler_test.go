package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sage-llm/internal/llm"
	"sage-llm/internal/service"
)

func acquireUnavailable() (llm.Client, bool) {
	return nil, false
}

func setupChatRouter(h *ChatHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/chat", h.PostChat)
	return r
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func newFallbackChatHandler() *ChatHandler {
	concierge := service.NewConciergeService(acquireUnavailable, "test-model", zap.NewNop())
	return NewChatHandler(zap.NewNop(), concierge)
}

func TestPostChat_EmptyMessageRejected(t *testing.T) {
	router := setupChatRouter(newFallbackChatHandler())

	rec := performRequest(router, http.MethodPost, "/chat", map[string]any{"message": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = performRequest(router, http.MethodPost, "/chat", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing message, got %d", rec.Code)
	}
}

func TestPostChat_FallbackResponse(t *testing.T) {
	router := setupChatRouter(newFallbackChatHandler())

	rec := performRequest(router, http.MethodPost, "/chat", map[string]any{
		"surface_id": "widget",
		"message":    "Tell me about Sedona",
		"history": []map[string]string{
			{"role": "user", "content": "hola"},
			{"role": "model", "content": "respuesta previa"},
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Result struct {
			Text    string `json:"text"`
			IsLocal bool   `json:"is_local"`
		} `json:"result"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Result.IsLocal {
		t.Fatalf("expected local buffer response")
	}
	if !strings.Contains(resp.Result.Text, "Sedona") {
		t.Fatalf("expected Sedona snippet, got %q", resp.Result.Text)
	}
	if resp.Type != "text" {
		t.Fatalf("expected text type, got %q", resp.Type)
	}
}

func TestPostChat_InFlightGuard(t *testing.T) {
	h := newFallbackChatHandler()
	router := setupChatRouter(h)

	// Simula una llamada pendiente para la misma superficie.
	if !h.tryLock("widget") {
		t.Fatalf("first lock must succeed")
	}
	defer h.unlock("widget")

	rec := performRequest(router, http.MethodPost, "/chat", map[string]any{
		"surface_id": "widget",
		"message":    "hola",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for busy surface, got %d", rec.Code)
	}

	// Superficies independientes no comparten estado.
	rec = performRequest(router, http.MethodPost, "/chat", map[string]any{
		"surface_id": "page",
		"message":    "hola",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for other surface, got %d", rec.Code)
	}
}

func TestPostChat_LockReleasedAfterCall(t *testing.T) {
	router := setupChatRouter(newFallbackChatHandler())

	for i := 0; i < 3; i++ {
		rec := performRequest(router, http.MethodPost, "/chat", map[string]any{
			"surface_id": "widget",
			"message":    "hola",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d: expected 200, got %d", i, rec.Code)
		}
	}
}
