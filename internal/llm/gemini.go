package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	defaultMaxTokens   = 1024
	defaultTemperature = 0.7
)

// shared HTTP client for Gemini API calls
var geminiHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for Gemini API calls (10 requests/second with burst capacity of 5)
var geminiRateLimiter = rate.NewLimiter(10, 5)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float32 `json:"temperature,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *geminiError `json:"error"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// GeminiConfig holds connection settings for the Gemini client.
type GeminiConfig struct {
	APIKey      string
	Model       string // e.g., "gemini-1.5-flash"
	MaxTokens   int
	Temperature float32
	BaseURL     string // override for tests
}

// GeminiClient implements Generator against the Gemini REST API with
// exponential backoff, jitter, and error classification. Identical
// requests within the cache TTL are served from memory.
type GeminiClient struct {
	config     GeminiConfig
	policy     Policy
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *responseCache

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGeminiClient creates a Gemini client with the default retry policy.
func NewGeminiClient(config GeminiConfig) *GeminiClient {
	return NewGeminiClientWithPolicy(config, DefaultPolicy())
}

// NewGeminiClientWithPolicy creates a Gemini client with an explicit
// retry policy.
func NewGeminiClientWithPolicy(config GeminiConfig, policy Policy) *GeminiClient {
	if config.MaxTokens == 0 {
		config.MaxTokens = defaultMaxTokens
	}
	if config.Temperature == 0 {
		config.Temperature = defaultTemperature
	}
	if config.BaseURL == "" {
		config.BaseURL = geminiBaseURL
	}

	return &GeminiClient{
		config:     config,
		policy:     policy,
		httpClient: geminiHTTPClient,
		limiter:    geminiRateLimiter,
		cache:      newResponseCache(defaultCacheTTL),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SeedJitter makes the jitter schedule deterministic, for tests.
func (c *GeminiClient) SeedJitter(seed int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rng = rand.New(rand.NewSource(seed))
}

func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Generate calls the model with retries. It returns
// *ModelUnavailableError once every attempt has failed; context
// cancellation is surfaced as-is and never retried.
func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	body, err := c.buildRequest(req)
	if err != nil {
		return "", err
	}

	if text, ok := c.cache.get(string(body)); ok {
		return text, nil
	}

	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.delay(attempt-1)); err != nil {
				return "", err
			}
		}

		attempts++
		text, retryable, err := c.attempt(ctx, body)
		if err == nil {
			c.cache.put(string(body), text)
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return "", &ModelUnavailableError{Attempts: attempts, Last: lastErr}
}

func (c *GeminiClient) buildRequest(req GenerateRequest) ([]byte, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.config.MaxTokens
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.config.Temperature
	}

	contents := make([]geminiContent, 0, len(req.Messages))
	for _, msg := range req.Messages {
		contents = append(contents, geminiContent{
			Role:  msg.Role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	body := geminiRequest{
		Contents: contents,
		GenerationConfig: &generationConfig{
			MaxOutputTokens: maxTokens,
			Temperature:     temperature,
		},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.SystemPrompt}},
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return data, nil
}

// attempt makes one HTTP call. The second return reports whether the
// failure is transient.
func (c *GeminiClient) attempt(ctx context.Context, body []byte) (string, bool, error) {
	attemptCtx := ctx
	if c.policy.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.policy.AttemptTimeout)
		defer cancel()
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.config.BaseURL, c.config.Model, c.config.APIKey)

	req, err := http.NewRequestWithContext(attemptCtx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.limiter.Wait(attemptCtx); err != nil {
		// Wait fails when the context is done, or proactively when the
		// required wait cannot finish before its deadline; both mean
		// the caller's deadline decides the outcome
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, ctxErr
		}
		if _, ok := ctx.Deadline(); ok {
			return "", false, context.DeadlineExceeded
		}
		return "", true, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// transport-level failures are transient
		return "", true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body) //nolint:errcheck
		status := resp.StatusCode
		msg := strings.TrimSpace(string(raw))

		var errResp geminiResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != nil {
			status = errResp.Error.Code
			msg = errResp.Error.Message
		}
		return "", IsRetryableStatus(status),
			fmt.Errorf("API request failed with status %d: %s", status, msg)
	}

	var genResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", true, fmt.Errorf("failed to decode response: %w", err)
	}
	if genResp.Error != nil {
		return "", IsRetryableStatus(genResp.Error.Code),
			fmt.Errorf("API error %d: %s", genResp.Error.Code, genResp.Error.Message)
	}

	text := extractText(&genResp)
	if text == "" {
		// the model occasionally returns an empty candidate; treat it
		// like a transient server failure
		return "", true, fmt.Errorf("no text in response")
	}
	return text, false, nil
}

func extractText(resp *geminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}

func (c *GeminiClient) delay(attempt int) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.policy.Delay(attempt, c.rng)
}

// sleep waits for d or until ctx is done.
func (c *GeminiClient) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
