package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freigent-ai/freigent/internal/metrics"
	"github.com/freigent-ai/freigent/internal/models"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	defaultModel   = "claude-3-haiku-20240307"
	maxTokens      = 2048

	anthropicVersion = "2023-06-01"
)

const systemPrompt = `You are a product recommendation engine for an AI shopping friend (Freigent). You receive:
1) A detailed user profile (personality, values, previous products).
2) A free-text product search query.

Your job is to suggest 3-5 concrete product ideas that match the user.
IMPORTANT:
- You MUST respond with ONLY valid JSON.
- Do NOT include any markdown, backticks, or plain text outside JSON.
- The JSON must have this exact structure:
{
  "products": [
    {
      "name": "string",
      "short_description": "string",
      "why_match": "string",
      "estimated_price_range": "string"
    },
    ... 3 to 5 items ...
  ],
  "summary_for_user": "short, friendly paragraph explaining the recommendations"
}`

// ClaudeGenerator calls the Anthropic messages API and parses the
// JSON-only reply into a RecommendationResult.
type ClaudeGenerator struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Anthropic messages API request/response structures.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeBlock `json:"content"`
	Error   *claudeError  `json:"error,omitempty"`
}

type claudeBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewClaudeGenerator creates a generator backed by the Anthropic API.
// Empty model and baseURL fall back to defaults.
func NewClaudeGenerator(apiKey, model, baseURL string, logger zerolog.Logger) *ClaudeGenerator {
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &ClaudeGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// Generate asks the model for recommendations. Transport, API and parse
// failures all degrade to a fallback result; Generate never fails.
func (g *ClaudeGenerator) Generate(ctx context.Context, profile *models.UserProfile, query string) models.RecommendationResult {
	start := time.Now()
	result, err := g.generate(ctx, profile, query)
	metrics.LLMLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMFailures.Inc()
		g.logger.Warn().Err(err).Str("query", query).Msg("recommendation generation failed, returning fallback")
		return Fallback(err)
	}
	return result
}

func (g *ClaudeGenerator) generate(ctx context.Context, profile *models.UserProfile, query string) (models.RecommendationResult, error) {
	var zero models.RecommendationResult

	if g.apiKey == "" {
		return zero, fmt.Errorf("anthropic api key is not configured")
	}

	userPrompt := fmt.Sprintf(
		"Here is the user profile:\n----------------------------------------\n%s\n"+
			"----------------------------------------\n\n"+
			"Here is the user's product search query:\n%s\n\n"+
			"Now generate the JSON response as specified. Remember: JSON only.",
		profileToText(profile), query)

	body, err := json.Marshal(claudeRequest{
		Model:     g.model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  []claudeMessage{{Role: "user", Content: userPrompt}},
	})
	if err != nil {
		return zero, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, err
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(respData, &claudeResp); err != nil {
		return zero, fmt.Errorf("failed to parse API response: %w", err)
	}
	if claudeResp.Error != nil {
		return zero, fmt.Errorf("API error: %s", claudeResp.Error.Message)
	}
	if len(claudeResp.Content) == 0 {
		return zero, fmt.Errorf("API response has no content blocks")
	}

	raw := strings.TrimSpace(claudeResp.Content[0].Text)

	var result models.RecommendationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return zero, fmt.Errorf("model output is not valid JSON: %w", err)
	}
	if result.Products == nil {
		result.Products = []models.Product{}
	}
	if result.SummaryForUser == "" {
		result.SummaryForUser = "No summary_for_user provided by the model."
	}

	return result, nil
}
