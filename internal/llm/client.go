// Package llm provides the HTTP client that asks a local language model to
// appraise a situation into emotion dimension scores. Calls are rate limited
// and wrapped in a circuit breaker; callers treat any failure as a signal to
// use their local fallback.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Sean220557/agentsim/internal/emotion"
	"github.com/Sean220557/agentsim/pkg/types"
)

// ErrCircuitOpen is returned while the circuit breaker rejects requests after
// repeated synthesis failures.
var ErrCircuitOpen = errors.New("synthesis circuit breaker is open")

// ErrBadResponse is returned when the model's output contains no usable
// emotion dimensions.
var ErrBadResponse = errors.New("unusable synthesis response")

// Config holds the synthesis client configuration. Zero values fall back to
// the defaults noted per field.
type Config struct {
	// BaseURL of the Ollama-compatible API (default http://localhost:11434).
	BaseURL string

	// Model name for generation requests (default phi3:mini).
	Model string

	// Timeout per request (default 10s).
	Timeout time.Duration

	// RequestsPerSecond caps the call rate (default 2).
	RequestsPerSecond float64
}

// Client talks to an Ollama-compatible /api/generate endpoint and parses the
// model's reply into an EmotionProfile.
type Client struct {
	baseURL string
	model   string
	timeout time.Duration

	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewClient creates a synthesis client. The circuit opens after 3 consecutive
// failures and probes again after 30 seconds.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.Model == "" {
		config.Model = "phi3:mini"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 2
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "emotion-synthesis",
		MaxRequests: 2,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		model:   config.Model,
		timeout: config.Timeout,
		http:    &http.Client{Timeout: config.Timeout},
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}
}

// Synthesize asks the model to score the situation on every emotion dimension
// and returns the parsed, normalized profile.
func (c *Client) Synthesize(ctx context.Context, contextText string, personality types.Personality) (*types.EmotionProfile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("llm: rate limit wait: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generate(ctx, buildPrompt(contextText, personality))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("llm: %w", ErrCircuitOpen)
		}
		return nil, err
	}

	profile, err := parseProfile(result.(string))
	if err != nil {
		return nil, err
	}
	profile.Context = "synthesized: " + contextText
	return profile, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm: status %d: %s", resp.StatusCode, string(detail))
	}

	var data generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	return data.Response, nil
}

// HealthCheck verifies the endpoint is reachable. It bypasses the breaker:
// health probes must not trip or reset it.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/version", nil)
	if err != nil {
		return fmt.Errorf("llm: create health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("llm: health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llm: health check status %d", resp.StatusCode)
	}
	return nil
}

// BreakerState reports the circuit state as closed, open or half-open.
func (c *Client) BreakerState() string {
	switch c.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

func buildPrompt(contextText string, personality types.Personality) string {
	var b strings.Builder
	b.WriteString("You score the emotional reaction of a character to a situation.\n")
	if personality.Name != "" || personality.Description != "" {
		fmt.Fprintf(&b, "Character: %s. %s\n", personality.Name, personality.Description)
	}
	fmt.Fprintf(&b, "Situation: %s\n", contextText)
	b.WriteString("Respond with only a JSON object mapping each of these dimensions to a number:\n")
	b.WriteString(strings.Join(types.DimensionNames(), ", "))
	b.WriteString("\nUse -1.0 to 1.0. No prose.")
	return b.String()
}

// parseProfile extracts the first JSON object from the model output and maps
// its known dimension keys onto a profile. Models wrap JSON in prose often
// enough that strict decoding of the whole reply is not viable.
func parseProfile(text string) (*types.EmotionProfile, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("llm: %w: no JSON object in %q", ErrBadResponse, truncateForError(text))
	}

	var raw map[string]float64
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("llm: %w: %v", ErrBadResponse, err)
	}

	var profile types.EmotionProfile
	matched := 0
	for name, value := range raw {
		if profile.SetDimension(strings.ToLower(name), value) {
			matched++
		}
	}
	if matched == 0 {
		return nil, fmt.Errorf("llm: %w: no known dimensions", ErrBadResponse)
	}

	profile.Normalize()
	return &profile, nil
}

func truncateForError(s string) string {
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}

var _ emotion.Synthesizer = (*Client)(nil)
