package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freigent-ai/freigent/internal/models"
)

func testProfile() *models.UserProfile {
	return &models.UserProfile{
		Name:        "Alice",
		Personality: "curious",
		Values:      "durability",
		Experiences: []models.ProductExperience{
			{Name: "trail shoes", Notes: "loved them", Rating: 5},
		},
	}
}

// fakeAnthropic returns a server that answers every /messages call with
// the given model output text.
func fakeAnthropic(t *testing.T, modelOutput string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("x-api-key"))

		resp := map[string]any{
			"content": []map[string]string{{"type": "text", "text": modelOutput}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerate_ParsesModelJSON(t *testing.T) {
	srv := fakeAnthropic(t, `{
		"products": [
			{"name": "X1", "short_description": "d", "why_match": "m", "estimated_price_range": "$10-20"}
		],
		"summary_for_user": "try the X1"
	}`)
	defer srv.Close()

	gen := NewClaudeGenerator("test-key", "", srv.URL, zerolog.Nop())
	result := gen.Generate(context.Background(), testProfile(), "shoes")

	require.Len(t, result.Products, 1)
	assert.Equal(t, "X1", result.Products[0].Name)
	assert.Equal(t, "$10-20", result.Products[0].EstimatedPriceRange)
	assert.Equal(t, "try the X1", result.SummaryForUser)
}

func TestGenerate_FallbackOnMalformedOutput(t *testing.T) {
	srv := fakeAnthropic(t, "Sure! Here are some ideas:\n- a tent\n- a stove")
	defer srv.Close()

	gen := NewClaudeGenerator("test-key", "", srv.URL, zerolog.Nop())
	result := gen.Generate(context.Background(), testProfile(), "camping gear")

	assert.Empty(t, result.Products)
	assert.Contains(t, result.SummaryForUser, "Error")
}

func TestGenerate_FallbackOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "rate_limit_error", "message": "overloaded"},
		})
	}))
	defer srv.Close()

	gen := NewClaudeGenerator("test-key", "", srv.URL, zerolog.Nop())
	result := gen.Generate(context.Background(), testProfile(), "shoes")

	assert.Empty(t, result.Products)
	assert.Contains(t, result.SummaryForUser, "overloaded")
}

func TestGenerate_FallbackWithoutAPIKey(t *testing.T) {
	gen := NewClaudeGenerator("", "", "http://127.0.0.1:0", zerolog.Nop())
	result := gen.Generate(context.Background(), testProfile(), "shoes")

	assert.Empty(t, result.Products)
	assert.Contains(t, result.SummaryForUser, "api key")
}

func TestGenerate_DefaultsMissingSummary(t *testing.T) {
	srv := fakeAnthropic(t, `{"products": []}`)
	defer srv.Close()

	gen := NewClaudeGenerator("test-key", "", srv.URL, zerolog.Nop())
	result := gen.Generate(context.Background(), testProfile(), "shoes")

	assert.NotNil(t, result.Products)
	assert.Equal(t, "No summary_for_user provided by the model.", result.SummaryForUser)
}

func TestProfileToText(t *testing.T) {
	text := profileToText(testProfile())
	assert.Contains(t, text, "User name: Alice")
	assert.Contains(t, text, "trail shoes (rating 5/5): loved them")

	empty := profileToText(&models.UserProfile{Name: "Bob"})
	assert.Contains(t, empty, "No concrete past product experience.")
}
