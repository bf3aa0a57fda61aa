package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task            TaskType
	Prompt          string
	Temperature     *float64 // nil uses task default
	MaxOutputTokens *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the text of the first candidate.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// GeminiClient implements LLMClient against a generateContent endpoint.
type GeminiClient struct {
	cfg      LLMConfig
	http     *http.Client
	limiter  *RateLimiter
	observer Observer
}

// NewGeminiClient creates a client for the configured model. The API key is
// required. The client owns its rate limiter; share the client to share the cap.
func NewGeminiClient(cfg LLMConfig, observer Observer) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &GeminiClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		limiter:  NewRateLimiter(cfg.RateLimit, cfg.RateWindow),
		observer: observer,
	}, nil
}

// Limiter exposes the client's rate limiter.
func (c *GeminiClient) Limiter() *RateLimiter { return c.limiter }

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	if err := c.limiter.Allow(); err != nil {
		c.observe(req, start, err)
		return nil, err
	}

	taskCfg := c.cfg.taskConfig(req.Task)
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxOutputTokens
	if req.MaxOutputTokens != nil {
		maxTok = *req.MaxOutputTokens
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.TaskTimeout(req.Task))
	defer cancel()

	body := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     temp,
			MaxOutputTokens: maxTok,
		},
	}

	text, err := c.doRequest(ctx, body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		c.observe(req, start, err)
		return nil, err
	}

	c.observe(req, start, nil)
	return &GenerateResponse{
		Text:      text,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

func (c *GeminiClient) doRequest(ctx context.Context, body generateContentRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.Model, url.QueryEscape(c.cfg.APIKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, redactKey(err, c.cfg.APIKey))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return "", statusError(httpResp.StatusCode, string(respBody))
	}

	var resp generateContentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyGeneration
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (c *GeminiClient) observe(req GenerateRequest, start time.Time, err error) {
	c.observer.OnCallComplete(LLMCallEvent{
		Task:        req.Task,
		Model:       c.cfg.Model,
		LatencyMs:   time.Since(start).Milliseconds(),
		PromptChars: len(req.Prompt),
		Success:     err == nil,
		ErrorCode:   errorCode(err),
		Err:         err,
	})
}

// redactKey strips the credential from transport errors, which quote the URL.
func redactKey(err error, key string) string {
	msg := err.Error()
	if key == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(key), "REDACTED")
	return strings.ReplaceAll(msg, key, "REDACTED")
}
