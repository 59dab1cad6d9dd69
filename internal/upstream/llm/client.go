// Package llm talks to an OpenAI-compatible chat completions gateway.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tempo/internal/upstream"

	"github.com/tidwall/gjson"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *upstream.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    upstream.NewClient("llm", 60*time.Second, 0),
	}
}

// Complete sends the conversation and returns the first choice's text.
func (c *Client) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	payload, err := json.Marshal(chatRequest{Model: model, Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	body, err := c.http.Do(req)
	if err != nil {
		return "", err
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("llm response has no choices")
	}
	return content.String(), nil
}
