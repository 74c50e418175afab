package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/utils"
)

type AIClient interface {
	// Chat runs a completion across the configured model chain: the primary
	// model first, then each fallback in order when retries are exhausted on
	// a transport/quota error. Template compliance is not this layer's
	// concern and never triggers another call.
	Chat(ctx context.Context, messages []AIMessage, opts *AIOptions) (*AICompletion, error)
	Models() []string
}

type AIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AIOptions struct {
	Temperature float32
	MaxTokens   int
}

type AICompletion struct {
	Content string
	Model   string
}

type aiClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	models     []string
	httpClient *http.Client

	maxRetries int
}

func NewAIClient(log *logger.Logger) (AIClient, error) {
	serviceLog := log.With("service", "AIClient")

	apiKey := utils.GetEnv("OPENAI_API_KEY", "", log)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	baseURL := utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", log)
	primary := utils.GetEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini", log)
	fallbacks := utils.GetEnvAsList("OPENAI_FALLBACK_MODELS", nil, log)

	// The chain is assembled once at startup and never mutated afterwards;
	// every request walks the same list.
	models := make([]string, 0, 1+len(fallbacks))
	models = append(models, primary)
	for _, m := range fallbacks {
		if m != primary {
			models = append(models, m)
		}
	}

	timeoutSec := utils.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 120, log)
	maxRetries := utils.GetEnvAsInt("OPENAI_MAX_RETRIES", 3, log)
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &aiClient{
		log:        serviceLog,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		models:     models,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

func (c *aiClient) Models() []string {
	out := make([]string, len(c.models))
	copy(out, c.models)
	return out
}

type aiHTTPError struct {
	StatusCode int
	Body       string
}

func (e *aiHTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

func isRetryableErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var httpErr *aiHTTPError
	if errors.As(err, &httpErr) {
		return isRetryableHTTP(httpErr.StatusCode)
	}
	return false
}

func jitterSleep(base time.Duration) time.Duration {
	// +/- 20%
	if base <= 0 {
		return 0
	}
	j := 0.2
	delta := base.Seconds() * j
	low := base.Seconds() - delta
	high := base.Seconds() + delta
	if low < 0 {
		low = 0
	}
	v := low + rand.Float64()*(high-low)
	return time.Duration(v * float64(time.Second))
}

type chatCompletionRequest struct {
	Model       string      `json:"model"`
	Messages    []AIMessage `json:"messages"`
	Temperature float32     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *aiClient) Chat(ctx context.Context, messages []AIMessage, opts *AIOptions) (*AICompletion, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages required")
	}

	var lastErr error
	for _, model := range c.models {
		completion, err := c.chatWithModel(ctx, model, messages, opts)
		if err == nil {
			return completion, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Non-retryable request errors (bad payload, auth) will fail on
		// every model the same way; bail instead of walking the chain.
		if !isRetryableErr(err) {
			return nil, err
		}
		c.log.Warn("Model exhausted retries, falling back",
			"model", model,
			"error", err.Error(),
		)
	}
	return nil, fmt.Errorf("all models failed: %w", lastErr)
}

func (c *aiClient) chatWithModel(ctx context.Context, model string, messages []AIMessage, opts *AIOptions) (*AICompletion, error) {
	req := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.4,
	}
	if opts != nil {
		if opts.Temperature > 0 {
			req.Temperature = opts.Temperature
		}
		if opts.MaxTokens > 0 {
			req.MaxTokens = opts.MaxTokens
		}
	}

	var resp chatCompletionResponse
	if err := c.do(ctx, "POST", "/v1/chat/completions", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty completion content")
	}
	usedModel := resp.Model
	if usedModel == "" {
		usedModel = model
	}
	return &AICompletion{Content: content, Model: usedModel}, nil
}

func (c *aiClient) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &aiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *aiClient) do(ctx context.Context, method, path string, body any, out any) error {
	// exponential backoff: 1s, 2s, 4s (cap ~10s)
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("openai decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		if !isRetryableErr(err) {
			return err
		}
		if attempt == c.maxRetries {
			return err
		}

		// Respect Retry-After when present.
		sleepFor := backoff
		if resp != nil {
			ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
			if ra != "" {
				if secs, parseErr := strconv.Atoi(ra); parseErr == nil && secs > 0 {
					sleepFor = time.Duration(secs) * time.Second
				}
			}
		}
		if sleepFor > 10*time.Second {
			sleepFor = 10 * time.Second
		}
		sleepFor = jitterSleep(sleepFor)

		c.log.Warn("OpenAI request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleepFor):
		}
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}
