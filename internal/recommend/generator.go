// Package recommend maps a user profile plus a free-text query to a
// structured set of product recommendations via an LLM backend.
package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/freigent-ai/freigent/internal/models"
)

// Generator produces product recommendations for a profile and query.
// Implementations never fail outward: any internal error is converted
// to a fallback result with empty products and a diagnostic summary.
type Generator interface {
	Generate(ctx context.Context, profile *models.UserProfile, query string) models.RecommendationResult
}

// Fallback builds the safe result returned when generation fails.
func Fallback(err error) models.RecommendationResult {
	return models.RecommendationResult{
		Products: []models.Product{},
		SummaryForUser: fmt.Sprintf(
			"The agent tried to return a result, but there was an error parsing the output.\n\nError: %v", err),
	}
}

// profileToText renders a profile as the plain-text block the model is
// prompted with.
func profileToText(profile *models.UserProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "User name: %s\n", profile.Name)
	fmt.Fprintf(&b, "Personality: %s\n", profile.Personality)
	fmt.Fprintf(&b, "Values in products: %s\n", profile.Values)

	b.WriteString("Past product experience:\n")
	if len(profile.Experiences) == 0 {
		b.WriteString("No concrete past product experience.\n")
		return b.String()
	}
	for _, exp := range profile.Experiences {
		fmt.Fprintf(&b, "- %s (rating %d/5): %s\n", exp.Name, exp.Rating, exp.Notes)
	}
	return b.String()
}
