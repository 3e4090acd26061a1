package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arjunkrish/rival_radar/internal/config"
	"github.com/arjunkrish/rival_radar/internal/logger"
)

const postMessageURL = "https://slack.com/api/chat.postMessage"

// Notifier Slack 投递客户端
// 优先使用 bot token（支持线程），否则退回 webhook。
type Notifier struct {
	cfg    config.SlackConfig
	client *http.Client
}

// NewNotifier 创建投递客户端
func NewNotifier(cfg config.SlackConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send 依次发送全部消息
// 使用 bot token 时第一条消息开新线程，后续消息挂在线程里。
func (n *Notifier) Send(ctx context.Context, payloads []Payload) error {
	if n.cfg.BotToken != "" && n.cfg.Channel != "" {
		logger.Log.Infof("通过 bot token 发送到 %s", n.cfg.Channel)
		var threadTS string
		for i, payload := range payloads {
			ts, err := n.postBot(ctx, payload, threadTS)
			if err != nil {
				return fmt.Errorf("message %d/%d: %w", i+1, len(payloads), err)
			}
			if i == 0 {
				threadTS = ts
			}
			logger.Log.Infof("消息 %d/%d 已发送", i+1, len(payloads))
			time.Sleep(time.Second)
		}
		return nil
	}

	if n.cfg.WebhookURL != "" {
		logger.Log.Info("通过 webhook 发送")
		for i, payload := range payloads {
			if err := n.postWebhook(ctx, payload); err != nil {
				return fmt.Errorf("message %d/%d: %w", i+1, len(payloads), err)
			}
			logger.Log.Infof("消息 %d/%d 已发送", i+1, len(payloads))
			time.Sleep(time.Second)
		}
		return nil
	}

	return fmt.Errorf("no slack credentials configured")
}

func (n *Notifier) postWebhook(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("slack webhook error (status %d): %s", res.StatusCode, string(respBody))
	}
	return nil
}

// postBot 通过 chat.postMessage 发送，返回消息的 ts 供线程使用
func (n *Notifier) postBot(ctx context.Context, payload Payload, threadTS string) (string, error) {
	reqBody := map[string]any{
		"channel": n.cfg.Channel,
		"blocks":  payload.Blocks,
	}
	if threadTS != "" {
		reqBody["thread_ts"] = threadTS
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal payload failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", postMessageURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.BotToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("slack api error (status %d): %s", res.StatusCode, string(respBody))
	}

	var data struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode response failed: %w", err)
	}
	if !data.OK {
		return "", fmt.Errorf("slack api error: %s", data.Error)
	}
	return data.TS, nil
}
