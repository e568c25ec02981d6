package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lungscreen/internal/config"
)

// VideoSynthesizer produces a digital-human video for a piece of text
type VideoSynthesizer interface {
	SynthesizeVideo(ctx context.Context, text string) (string, error)
}

// AvatarClient wraps the digital-human rendering endpoint. Unconfigured
// clients return an empty URL so the flow runs audio-only.
type AvatarClient struct {
	cfg    *config.AIConfig
	client *http.Client
}

// NewAvatarClient creates a new avatar client
func NewAvatarClient(cfg *config.AIConfig) *AvatarClient {
	return &AvatarClient{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
	}
}

// SynthesizeVideo asks the avatar service to render the spoken text
func (c *AvatarClient) SynthesizeVideo(ctx context.Context, text string) (string, error) {
	if c.cfg.AvatarURL == "" || text == "" {
		return "", nil
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AvatarURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("avatar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("avatar request: status %d", resp.StatusCode)
	}

	var result struct {
		VideoURL string `json:"video_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("avatar response: %w", err)
	}
	return result.VideoURL, nil
}
