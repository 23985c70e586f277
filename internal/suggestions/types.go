package suggestions

// Suggestion is one model-generated recommendation. The shape is validated
// before anything reaches a caller; a response that fails validation is a
// failed generation, not a partial result.
type Suggestion struct {
	Name            string   `json:"name" validate:"required"`
	Brand           string   `json:"brand" validate:"required"`
	Category        string   `json:"category" validate:"required"`
	Reason          string   `json:"reason" validate:"required"`
	PriceRange      string   `json:"price_range" validate:"required"`
	KeyBenefits     []string `json:"key_benefits" validate:"required,min=1"`
	SimilarityScore float64  `json:"similarity_score" validate:"gte=0,lte=100"`
}

// Analysis is the model's read of the user's taste.
type Analysis struct {
	UserPreferences    []string `json:"user_preferences"`
	TrendingCategories []string `json:"trending_categories"`
	BrandAffinity      []string `json:"brand_affinity"`
}

// modelResponse is the raw decoded payload from the generator.
type modelResponse struct {
	Suggestions []Suggestion `json:"suggestions" validate:"required,dive"`
	Analysis    Analysis     `json:"analysis"`
}

// Result is the typed outcome of a generation request. NeedsAPIKey is kept
// distinct from generic failure so the UI can render setup instructions.
type Result struct {
	Suggestions []Suggestion `json:"suggestions"`
	Analysis    Analysis     `json:"analysis"`
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Error       string       `json:"error,omitempty"`
	NeedsAPIKey bool         `json:"needs_api_key,omitempty"`
}

// Stats summarizes the owner's stored products; computed locally, no model
// call involved.
type Stats struct {
	TotalProducts      int      `json:"total_products"`
	RepurchaseProducts int      `json:"repurchase_products"`
	HighRatedProducts  int      `json:"high_rated_products"`
	TopCategories      []string `json:"top_categories"`
	TopBrands          []string `json:"top_brands"`
}
