package director

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ErrSceneTooShort is returned when a scene has too little text to direct.
var ErrSceneTooShort = errors.New("scene text too short to analyze")

// MinSceneLen is the minimum trimmed scene length worth sending to the model.
const MinSceneLen = 10

// Client calls the Ollama generate API to turn scene prose into a structured
// production script.
type Client struct {
	host       string
	model      string
	httpClient *http.Client

	Stats *CallStats
}

func NewClient(host, model string) *Client {
	return &Client{
		host:  strings.TrimRight(host, "/"),
		model: model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		Stats: NewCallStats(time.Hour),
	}
}

func (c *Client) Model() string { return c.model }

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// AnalyzeScene sends one scene's text to the model and decodes the resulting
// production script. The scene label is echoed back in the result so
// downstream consumers can address it.
func (c *Client) AnalyzeScene(ctx context.Context, sceneText, sceneLabel string) (*ScriptScene, error) {
	if len(strings.TrimSpace(sceneText)) < MinSceneLen {
		return nil, ErrSceneTooShort
	}

	reqBody := generateRequest{
		Model:  c.model,
		Prompt: BuildScenePrompt(sceneLabel, sceneText),
		Stream: false,
		// Native JSON mode keeps the model from wrapping the script in prose.
		Format: "json",
		Options: generateOptions{
			Temperature: 0.2,
			NumCtx:      4096,
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama api: %w", err)
	}
	defer resp.Body.Close()
	c.Stats.Record(time.Since(start).Milliseconds(), resp.StatusCode == http.StatusOK)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp generateResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != "" {
		return nil, fmt.Errorf("ollama error: %s", apiResp.Error)
	}

	text := extractJSON(apiResp.Response)

	var scene ScriptScene
	if err := json.Unmarshal([]byte(text), &scene); err != nil {
		return nil, fmt.Errorf("parse script json: %w (raw: %s)", err, truncate(text, 200))
	}
	scene.SceneID = sceneLabel

	if err := ValidateScript(&scene); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}

	return &scene, nil
}

var (
	codeFenceRe  = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// extractJSON strips markdown code fences and trims to the outermost JSON
// object in a model response.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) > 1 {
		s = m[1]
	}
	if m := jsonObjectRe.FindString(s); m != "" {
		return m
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
