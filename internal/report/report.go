package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/statuspng/statuspng/internal/models"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"

	// The provider call is bounded so a stalled provider can never hang
	// incident creation; on expiry the template fallback is used.
	providerTimeout = 15 * time.Second

	maxTokens   = 400
	temperature = 0.3

	systemPrompt = "You write short incident reports for a public status page. " +
		"Use a professional, calm tone and plain language customers understand. " +
		"Do not speculate about causes. Keep the report under 200 words."
)

// ProviderError wraps any failure of the report provider call. It never
// escapes Generate; it exists so callers of the low-level client can
// identify provider failures with errors.As.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("report provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Generator produces incident report text. The primary strategy asks an
// OpenAI-compatible chat-completions endpoint; every failure falls back
// to a deterministic template, so Generate always returns non-empty
// text.
type Generator struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewGenerator() *Generator {
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Generator{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: providerTimeout},
	}
}

// Generate returns report text for a new incident. statusCode is nil
// when the probe failed at the transport layer, in which case errorMessage
// describes the failure.
func (g *Generator) Generate(ctx context.Context, monitor models.Monitor, statusCode *int, errorMessage string) string {
	detectedAt := time.Now().UTC()

	if g.apiKey != "" {
		text, err := g.complete(ctx, monitor, statusCode, errorMessage, detectedAt)
		if err != nil {
			log.Printf("Report generation for monitor %d fell back to template: %v", monitor.ID, err)
		} else if text != "" {
			return text
		}
	}

	return fallbackReport(monitor, statusCode, errorMessage, detectedAt)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *Generator) complete(ctx context.Context, monitor models.Monitor, statusCode *int, errorMessage string, detectedAt time.Time) (string, error) {
	var observation string
	if statusCode != nil {
		observation = fmt.Sprintf("it responded with HTTP %d", *statusCode)
	} else {
		observation = fmt.Sprintf("the request failed with error: %s", errorMessage)
	}

	userPrompt := fmt.Sprintf(
		"Our monitoring detected an outage of the service %q (%s) at %s: %s. "+
			"Write the incident report for our status page.",
		monitor.Name, monitor.URL, detectedAt.Format(time.RFC3339), observation,
	)

	payload := chatCompletionRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &ProviderError{Err: fmt.Errorf("provider returned status %d", resp.StatusCode)}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", &ProviderError{Err: err}
	}

	if len(completion.Choices) == 0 {
		return "", &ProviderError{Err: fmt.Errorf("provider returned no choices")}
	}

	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", &ProviderError{Err: fmt.Errorf("provider returned empty report")}
	}

	return text, nil
}

// fallbackReport builds the deterministic template report. It has no
// network dependency and always succeeds.
func fallbackReport(monitor models.Monitor, statusCode *int, errorMessage string, detectedAt time.Time) string {
	var happened string
	if statusCode != nil {
		happened = fmt.Sprintf(
			"Our monitoring system detected that %s returned an HTTP %d status code, indicating the service is currently unavailable.",
			monitor.URL, *statusCode,
		)
	} else {
		happened = fmt.Sprintf(
			"Our monitoring system was unable to reach %s. Error: %s",
			monitor.URL, errorMessage,
		)
	}

	detected := detectedAt.Format("2006-01-02 15:04:05 UTC")
	clock := detectedAt.Format("15:04:05 UTC")

	return fmt.Sprintf(`**Incident Report**

We detected an issue with %s at %s.

**What happened:**
%s

**Impact:**
Users may be unable to access %s during this time.

**Current status:**
Our team has been automatically notified and is investigating the issue.

**Timeline:**
- %s: Issue detected
- %s: Team notified

We'll update this page as we learn more.`,
		monitor.Name, detected, happened, monitor.Name, clock, clock)
}
