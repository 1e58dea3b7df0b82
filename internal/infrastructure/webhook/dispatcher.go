// Package webhook 提供成稿回传投递
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"velours-story-api/internal/config"
	"velours-story-api/pkg/logger"
	"velours-story-api/pkg/metrics"
)

// Dispatcher 异步投递成稿正文到外部回传端点。
// 投递是尽力而为:失败只记日志与指标,绝不影响生成结果。
type Dispatcher struct {
	cfg    *config.WebhookConfig
	client *http.Client
}

func NewDispatcher(cfg *config.WebhookConfig) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Dispatch 后台投递,立即返回。
func (d *Dispatcher) Dispatch(storyText string) {
	if !d.cfg.Enabled || d.cfg.URL == "" {
		return
	}
	go d.deliver(storyText)
}

func (d *Dispatcher) deliver(storyText string) {
	payload, err := json.Marshal(map[string]string{"story": storyText})
	if err != nil {
		metrics.WebhookDeliveryTotal.WithLabelValues("error").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		metrics.WebhookDeliveryTotal.WithLabelValues("error").Inc()
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		metrics.WebhookDeliveryTotal.WithLabelValues("error").Inc()
		logger.Warn(ctx, "webhook delivery failed", "url", d.cfg.URL, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.WebhookDeliveryTotal.WithLabelValues("error").Inc()
		logger.Warn(ctx, "webhook delivery rejected", "url", d.cfg.URL, "status", resp.StatusCode)
		return
	}
	metrics.WebhookDeliveryTotal.WithLabelValues("success").Inc()
}
