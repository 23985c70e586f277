package suggestions

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"glowstash/internal/domain/products"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	suggestionCount  = 5
	highRatedFloor   = 4
	highRatedLimit   = 10
	needsAPIKeyError = "AI suggestions require an API key. Set OPENAI_API_KEY in your environment to enable this feature."
	emptyShelfNote   = "No products found to base suggestions on. Add some products and mark them as 'want to repurchase' or rate them highly!"
)

// ProductSource is the slice of the products store the suggestion engine
// needs.
type ProductSource interface {
	ListRepurchase(ctx context.Context, ownerID int64) ([]products.TasteRow, error)
	ListHighRated(ctx context.Context, ownerID int64, minRating, limit int) ([]products.TasteRow, error)
	ListTaste(ctx context.Context, ownerID int64) ([]products.TasteRow, error)
}

// Service turns a user's purchase history into model-generated product
// recommendations. A nil model means no AI credential is configured; the
// service then answers NeedsAPIKey without ever attempting a call.
type Service struct {
	source   ProductSource
	model    Generator
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

func NewService(source ProductSource, model Generator, logger *zap.SugaredLogger) *Service {
	return &Service{
		source:   source,
		model:    model,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

func needsKeyResult() Result {
	return Result{
		Suggestions: []Suggestion{},
		NeedsAPIKey: true,
		Error:       needsAPIKeyError,
	}
}

func failureResult(msg string) Result {
	return Result{Suggestions: []Suggestion{}, Error: msg}
}

// Generate gathers the owner's repurchase-flagged and highly rated products,
// builds a prompt from them and asks the model for exactly five validated
// suggestions.
func (s *Service) Generate(ctx context.Context, ownerID int64) Result {
	if s.model == nil {
		return needsKeyResult()
	}

	repurchase, err := s.source.ListRepurchase(ctx, ownerID)
	if err != nil {
		s.logger.Errorw("list repurchase products", "error", err)
		return failureResult("failed to load products")
	}

	highRated, err := s.source.ListHighRated(ctx, ownerID, highRatedFloor, highRatedLimit)
	if err != nil {
		s.logger.Errorw("list high rated products", "error", err)
		return failureResult("failed to load products")
	}

	unique := dedupe(append(repurchase, highRated...))
	if len(unique) == 0 {
		return Result{Suggestions: []Suggestion{}, Success: true, Message: emptyShelfNote}
	}

	raw, err := s.model.Generate(ctx, buildPrompt(unique))
	if err != nil {
		s.logger.Errorw("generate suggestions", "error", err)
		if strings.Contains(err.Error(), "API key") {
			return needsKeyResult()
		}
		return failureResult(err.Error())
	}

	var resp modelResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		s.logger.Errorw("decode model response", "error", err)
		return failureResult("model returned an unreadable response")
	}
	if err := s.validate.Struct(&resp); err != nil {
		s.logger.Errorw("invalid model response", "error", err)
		return failureResult("model returned an invalid response")
	}

	return Result{Suggestions: resp.Suggestions, Analysis: resp.Analysis, Success: true}
}

// Stats computes shelf statistics purely from stored rows. Top lists are
// ordered by frequency, ties broken lexicographically so the output is
// deterministic.
func (s *Service) Stats(ctx context.Context, ownerID int64) (*Stats, error) {
	rows, err := s.source.ListTaste(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	stats := &Stats{
		TotalProducts: len(rows),
		TopCategories: []string{},
		TopBrands:     []string{},
	}

	categoryCounts := map[string]int{}
	brandCounts := map[string]int{}

	for _, r := range rows {
		if r.UsageStatus != nil && *r.UsageStatus == string(products.StatusRepurchase) {
			stats.RepurchaseProducts++
		}
		if r.Rating != nil && *r.Rating >= highRatedFloor {
			stats.HighRatedProducts++
		}
		if r.Category != nil && *r.Category != "" {
			categoryCounts[*r.Category]++
		}
		if r.Brand != nil && *r.Brand != "" {
			brandCounts[*r.Brand]++
		}
	}

	stats.TopCategories = topN(categoryCounts, 3)
	stats.TopBrands = topN(brandCounts, 3)

	return stats, nil
}

// dedupe keeps the first occurrence of each (name, brand) pair, preserving
// input order: repurchase products first, then high-rated ones.
func dedupe(rows []products.TasteRow) []products.TasteRow {
	seen := make(map[string]bool, len(rows))
	out := make([]products.TasteRow, 0, len(rows))

	for _, r := range rows {
		brand := ""
		if r.Brand != nil {
			brand = *r.Brand
		}
		key := r.Name + "\x00" + brand
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}

	return out
}

func buildPrompt(rows []products.TasteRow) string {
	items := make([]string, 0, len(rows))
	brandSet := map[string]bool{}
	categorySet := map[string]bool{}
	var brands, categories []string

	for _, r := range rows {
		brand := "Unknown"
		if r.Brand != nil && *r.Brand != "" {
			brand = *r.Brand
			if !brandSet[brand] {
				brandSet[brand] = true
				brands = append(brands, brand)
			}
		}
		category := "Uncategorized"
		if r.Category != nil && *r.Category != "" {
			category = *r.Category
			if !categorySet[category] {
				categorySet[category] = true
				categories = append(categories, category)
			}
		}
		items = append(items, fmt.Sprintf("%s by %s (%s)", r.Name, brand, category))
	}

	return fmt.Sprintf(`Based on the user's favorite products, suggest %d similar items they might love.

USER'S FAVORITE PRODUCTS:
%s

PREFERRED BRANDS: %s
PREFERRED CATEGORIES: %s

Please suggest %d beauty or health products that are:
1. Similar to their favorites but not identical
2. From reputable brands (can include their preferred brands or new ones)
3. In related categories they might enjoy
4. Suitable for someone who likes the products listed above

Respond with a JSON object of this exact shape:
{
  "suggestions": [{
    "name": "realistic, existing product name",
    "brand": "brand name",
    "category": "product category",
    "reason": "detailed reason for the recommendation",
    "price_range": "estimated price range, e.g. '$15-25'",
    "key_benefits": ["benefit", "..."],
    "similarity_score": 0-100
  }],
  "analysis": {
    "user_preferences": ["..."],
    "trending_categories": ["..."],
    "brand_affinity": ["..."]
  }
}

Focus on products that actually exist and are currently available in the market.`,
		suggestionCount,
		strings.Join(items, ", "),
		strings.Join(brands, ", "),
		strings.Join(categories, ", "),
		suggestionCount,
	)
}

// topN returns the n highest-frequency keys; count descending, then
// lexicographic.
func topN(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
