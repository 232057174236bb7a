package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/gridironlab/companion/internal/platform/logging"
	"github.com/gridironlab/companion/internal/usecase"
)

const (
	defaultBaseURL   = "https://api.openai.com"
	completionsPath  = "/v1/chat/completions"
	maxResponseBytes = 1 << 20
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client calls an OpenAI-compatible chat completions endpoint and
// returns the first candidate's text. Upstream failures are mapped
// onto the analysis error taxonomy so callers never branch on raw
// status codes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logging.Logger
}

var _ usecase.ChatClient = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 60 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		logger:     logger,
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type wireResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) CreateChatCompletion(ctx context.Context, req usecase.ChatRequest) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: analysis service API key is not configured", usecase.ErrMissingCredentials)
	}

	messages := make([]wireMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, wireMessage{Role: msg.Role, Content: msg.Content})
	}

	body, err := sonic.Marshal(wireRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: send completion request: %v", usecase.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read completion response: %v", usecase.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.statusError(ctx, resp.StatusCode, raw)
	}

	var decoded wireResponse
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("%w: decode completion response: %v", usecase.ErrTransport, err)
	}

	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: completion returned no candidates", usecase.ErrAnalysisEmptyResponse)
	}

	return decoded.Choices[0].Message.Content, nil
}

func (c *Client) statusError(ctx context.Context, status int, raw []byte) error {
	detail := upstreamDetail(raw)
	c.logger.WarnContext(ctx, "analysis service request rejected", "status", status, "detail", detail)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", usecase.ErrAnalysisUnauthorized, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", usecase.ErrAnalysisRateLimited, detail)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", usecase.ErrAnalysisBadRequest, detail)
	default:
		return fmt.Errorf("%w: analysis service status=%d detail=%s", usecase.ErrTransport, status, detail)
	}
}

func upstreamDetail(raw []byte) string {
	var decoded wireResponse
	if err := sonic.Unmarshal(raw, &decoded); err == nil && decoded.Error != nil && decoded.Error.Message != "" {
		return decoded.Error.Message
	}

	text := strings.TrimSpace(string(raw))
	if len(text) > 240 {
		text = text[:240] + "..."
	}
	if text == "" {
		text = "no detail"
	}
	return text
}
