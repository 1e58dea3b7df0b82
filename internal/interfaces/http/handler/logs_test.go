package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"velours-story-api/internal/infrastructure/persistence/file"
)

func newLogsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := file.NewLogStore(filepath.Join(t.TempDir(), "user_logs.json"), 100)
	if err != nil {
		t.Fatalf("NewLogStore: %v", err)
	}
	h := NewLogsHandler(store)

	engine := gin.New()
	engine.GET("/v1/logs", h.List)
	engine.POST("/v1/logs", h.Append)
	engine.DELETE("/v1/logs", h.Clear)
	return engine
}

func TestLogsRoundTrip(t *testing.T) {
	engine := newLogsRouter(t)

	// 追加
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/logs", strings.NewReader(`{"event":"session_start","page":"accueil"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("append: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var appendResp struct {
		Status    string `json:"status"`
		TotalLogs int    `json:"totalLogs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &appendResp); err != nil {
		t.Fatalf("decode append response: %v", err)
	}
	if appendResp.Status != "success" || appendResp.TotalLogs != 1 {
		t.Errorf("unexpected append response %+v", appendResp)
	}

	// 列表
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/logs", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var listResp struct {
		Status      string           `json:"status"`
		Logs        []map[string]any `json:"logs"`
		TotalLogs   int              `json:"totalLogs"`
		LastUpdated string           `json:"lastUpdated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listResp.TotalLogs != 1 || len(listResp.Logs) != 1 {
		t.Fatalf("unexpected list response %+v", listResp)
	}
	if listResp.Logs[0]["event"] != "session_start" {
		t.Errorf("payload should survive the round trip, got %v", listResp.Logs[0])
	}
	if id, _ := listResp.Logs[0]["id"].(string); !strings.HasPrefix(id, "log_") {
		t.Errorf("server should assign an id, got %v", listResp.Logs[0]["id"])
	}
	if listResp.LastUpdated == "" {
		t.Error("lastUpdated should be set")
	}

	// 清空
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/logs", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/logs", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if listResp.TotalLogs != 0 {
		t.Errorf("expected empty store after clear, got %d", listResp.TotalLogs)
	}
}

func TestLogsAppendRejectsInvalidBody(t *testing.T) {
	engine := newLogsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/logs", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"error"`) {
		t.Errorf("error shape should follow the legacy protocol, got %s", w.Body.String())
	}
}
