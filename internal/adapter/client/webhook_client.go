package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go-wxmp-svc/internal/mp"
	"go-wxmp-svc/internal/responder"
	"go-wxmp-svc/internal/shared"
)

// WebhookClient 上游业务回复 HTTP 客户端
type WebhookClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	retry      int
}

// NewWebhookClient 创建上游 HTTP 客户端
func NewWebhookClient(cfg shared.UpstreamConfig, logger *slog.Logger) *WebhookClient {
	return &WebhookClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
		retry:  cfg.Retry,
	}
}

// Respond 实现 responder.Service 接口，将事件摘要发送给上游并取回回复
func (c *WebhookClient) Respond(ctx context.Context, ev *mp.ReceivedEvent) (mp.Reply, error) {
	req := responder.NewWebhookRequest(ev)
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal webhook request: %w", err)
	}

	var lastErr error
	attempts := c.retry + 1

	for i := 0; i < attempts; i++ {
		resp, err := c.doRequest(ctx, body)
		if err == nil {
			return resp.Reply()
		}
		lastErr = err

		if i < c.retry {
			delay := time.Duration(500<<uint(i)) * time.Millisecond // 500ms, 1s, 2s, ...
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	c.logger.Error("all retries failed for webhook request",
		"from", req.From,
		"msg_type", req.MsgType,
		"attempts", attempts,
		"error", lastErr,
	)
	return nil, fmt.Errorf("respond after %d attempts: %w", attempts, lastErr)
}

// doRequest 执行单次 HTTP POST 请求
func (c *WebhookClient) doRequest(ctx context.Context, body []byte) (*responder.WebhookResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reply", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var out responder.WebhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &out, nil
}
