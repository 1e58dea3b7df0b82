// Package llm 提供基于 OpenAI 兼容协议的 Grok 模型网关
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"velours-story-api/internal/application/story"
	"velours-story-api/internal/config"
	apperrors "velours-story-api/pkg/errors"
	"velours-story-api/pkg/logger"
	"velours-story-api/pkg/metrics"
)

var tracer = otel.Tracer("llm.grok")

// quotaMarkers 配额类错误的报文特征,供应方不保证稳定的错误码,
// 状态码之外还需按子串匹配兜底。
var quotaMarkers = []string{
	"429",
	"too many tokens",
	"rate limit",
	"quota",
	"exhausted",
}

// IsQuotaError 判断是否为配额/限流类错误,只有此类错误触发降级。
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// FallbackExhaustedError 主备模型均失败,两个原始错误都保留。
type FallbackExhaustedError struct {
	PrimaryModel  string
	FallbackModel string
	PrimaryErr    error
	FallbackErr   error
}

func (e *FallbackExhaustedError) Error() string {
	return fmt.Sprintf("llm fallback exhausted: %s failed (%v), %s failed (%v)",
		e.PrimaryModel, e.PrimaryErr, e.FallbackModel, e.FallbackErr)
}

func (e *FallbackExhaustedError) Unwrap() error { return e.FallbackErr }

// GrokGateway 补全网关:主模型配额失败时单跳降级到备用模型,
// 降级调用降温重试(温度乘以配置系数),种子保持不变。
type GrokGateway struct {
	client *openai.Client
	cfg    *config.LLMConfig
}

// NewGrokGateway 基于 OpenAI 兼容端点创建网关。
func NewGrokGateway(cfg *config.LLMConfig) *GrokGateway {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &GrokGateway{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// Complete 实现 story.CompletionGateway。
func (g *GrokGateway) Complete(ctx context.Context, req story.CompletionRequest) (*story.CompletionResult, error) {
	ctx, span := tracer.Start(ctx, "llm.Complete",
		trace.WithAttributes(
			attribute.String("llm.model", g.cfg.PrimaryModel),
			attribute.Float64("llm.temperature", req.Temperature),
			attribute.Int("llm.seed", req.Seed),
		))
	defer span.End()

	content, err := g.call(ctx, g.cfg.PrimaryModel, "primary", req.Temperature, req)
	if err == nil {
		return &story.CompletionResult{Content: content, Model: g.cfg.PrimaryModel}, nil
	}

	if !IsQuotaError(err) {
		span.RecordError(err)
		return nil, apperrors.Wrap(err, apperrors.CodeLLMProviderError, "llm provider call failed")
	}

	// 配额错误:单跳降级,不重试主模型
	span.SetAttributes(attribute.Bool("llm.fallback", true))
	logger.FromContext(ctx).Warn("primary model quota exceeded, falling back",
		"primary_model", g.cfg.PrimaryModel,
		"fallback_model", g.cfg.FallbackModel,
		"error", err,
	)

	fallbackTemp := req.Temperature * g.cfg.FallbackTemperatureFactor
	content, fbErr := g.call(ctx, g.cfg.FallbackModel, "fallback", fallbackTemp, req)
	if fbErr != nil {
		metrics.LLMFallbackTotal.WithLabelValues("error").Inc()
		exhausted := &FallbackExhaustedError{
			PrimaryModel:  g.cfg.PrimaryModel,
			FallbackModel: g.cfg.FallbackModel,
			PrimaryErr:    err,
			FallbackErr:   fbErr,
		}
		span.RecordError(exhausted)
		return nil, apperrors.Wrap(exhausted, apperrors.CodeLLMFallbackExhausted, "primary and fallback models both failed")
	}

	metrics.LLMFallbackTotal.WithLabelValues("success").Inc()
	return &story.CompletionResult{Content: content, Model: g.cfg.FallbackModel, Fallback: true}, nil
}

// call 单次补全调用,按模型与档位上报指标。
func (g *GrokGateway) call(ctx context.Context, model, tier string, temperature float64, req story.CompletionRequest) (string, error) {
	seed := req.Seed
	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: float32(temperature),
		Seed:        &seed,
		MaxTokens:   g.cfg.MaxTokens,
	})
	metrics.LLMCallDuration.WithLabelValues(model, tier).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(model, tier, "error").Inc()
		return "", err
	}
	if len(resp.Choices) == 0 {
		metrics.LLMCallTotal.WithLabelValues(model, tier, "error").Inc()
		return "", fmt.Errorf("model %s returned no choices", model)
	}
	metrics.LLMCallTotal.WithLabelValues(model, tier, "success").Inc()
	return resp.Choices[0].Message.Content, nil
}
