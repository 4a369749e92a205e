package models

// ProductExperience is one past product a user has opinions about.
type ProductExperience struct {
	Name   string `json:"name"`
	Notes  string `json:"notes"`
	Rating int    `json:"rating"` // 1..5
}

// UserProfile is the stored profile a freigent reasons over.
type UserProfile struct {
	Name        string              `json:"name"`
	Personality string              `json:"personality"`
	Values      string              `json:"values"`
	Experiences []ProductExperience `json:"experiences"`
}

// Product is a single recommended product.
type Product struct {
	Name                string `json:"name"`
	ShortDescription    string `json:"short_description"`
	WhyMatch            string `json:"why_match"`
	EstimatedPriceRange string `json:"estimated_price_range"`
}

// RecommendationResult is the structured output of one recommendation call.
type RecommendationResult struct {
	Products       []Product `json:"products"`
	SummaryForUser string    `json:"summary_for_user"`
}
