package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"velours-story-api/internal/application/story"
	"velours-story-api/internal/config"
)

type stubGateway struct {
	result *story.CompletionResult
	err    error
}

func (s *stubGateway) Complete(_ context.Context, _ story.CompletionRequest) (*story.CompletionResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func storyTestDefaults() config.ProfileDefaultsConfig {
	return config.ProfileDefaultsConfig{
		Name:           "l'auditrice",
		Gender:         "femme",
		Orientation:    "hétérosexuelle",
		DominantStyle:  "VISUEL",
		ExcitationType: "ÉMOTIONNEL",
	}
}

func newStoryRouter(gw story.CompletionGateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	generator := story.NewGenerator(gw, nil, storyTestDefaults())
	h := NewStoryHandler(generator, nil)

	engine := gin.New()
	engine.POST("/v1/stories/generate", h.Generate)
	return engine
}

func TestGenerateEndpointSuccess(t *testing.T) {
	engine := newStoryRouter(&stubGateway{result: &story.CompletionResult{
		Content: "Tu fermes les yeux.",
		Model:   "grok-4-0709",
	}})

	body := `{"type":"free","fantasy_text":"une nuit d'été","reading_time":3}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/stories/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Story    string `json:"story"`
			Type     string `json:"type"`
			Metadata *struct {
				Model string `json:"model"`
				Seed  int    `json:"seed"`
			} `json:"metadata"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Story != "Tu fermes les yeux." {
		t.Errorf("unexpected story %q", resp.Data.Story)
	}
	if resp.Data.Type != "free" {
		t.Errorf("unexpected type %q", resp.Data.Type)
	}
	if resp.Data.Metadata == nil || resp.Data.Metadata.Model != "grok-4-0709" {
		t.Error("metadata should carry the serving model")
	}
}

func TestGenerateEndpointValidationFailure(t *testing.T) {
	engine := newStoryRouter(&stubGateway{result: &story.CompletionResult{Content: "x"}})

	// custom 类型缺少 situation/character/place
	body := `{"type":"custom"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/stories/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "situation") {
		t.Errorf("validation error should name the missing field, got %s", w.Body.String())
	}
}

func TestGenerateEndpointMissingType(t *testing.T) {
	engine := newStoryRouter(&stubGateway{result: &story.CompletionResult{Content: "x"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/stories/generate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing type, got %d", w.Code)
	}
}

func TestGenerateEndpointGatewayFailure(t *testing.T) {
	engine := newStoryRouter(&stubGateway{err: context.DeadlineExceeded})

	body := `{"type":"free","fantasy_text":"un rêve"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/stories/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unclassified gateway error, got %d", w.Code)
	}
}
