package suggestions

import (
	"context"
	"errors"
	"testing"

	"glowstash/internal/domain/products"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	repurchase []products.TasteRow
	highRated  []products.TasteRow
	taste      []products.TasteRow
	err        error
}

func (f *fakeSource) ListRepurchase(ctx context.Context, ownerID int64) ([]products.TasteRow, error) {
	return f.repurchase, f.err
}

func (f *fakeSource) ListHighRated(ctx context.Context, ownerID int64, minRating, limit int) ([]products.TasteRow, error) {
	return f.highRated, f.err
}

func (f *fakeSource) ListTaste(ctx context.Context, ownerID int64) ([]products.TasteRow, error) {
	return f.taste, f.err
}

type fakeModel struct {
	raw   string
	err   error
	calls int
}

func (f *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.raw, f.err
}

func strptr(s string) *string { return &s }
func i16ptr(i int16) *int16   { return &i }

func row(name, brand string) products.TasteRow {
	return products.TasteRow{Name: name, Brand: strptr(brand)}
}

const validResponse = `{
	"suggestions": [
		{"name": "Hydro Boost", "brand": "Neutrogena", "category": "Skincare",
		 "reason": "Lightweight hydration similar to your favorites",
		 "price_range": "$15-25", "key_benefits": ["hydrating"], "similarity_score": 88},
		{"name": "Lip Sleeping Mask", "brand": "Laneige", "category": "Skincare",
		 "reason": "Overnight care for lip product fans",
		 "price_range": "$20-24", "key_benefits": ["repairing"], "similarity_score": 75}
	],
	"analysis": {
		"user_preferences": ["hydration"],
		"trending_categories": ["Skincare"],
		"brand_affinity": ["Neutrogena"]
	}
}`

func TestGenerate_NilModelNeedsAPIKey(t *testing.T) {
	svc := NewService(&fakeSource{repurchase: []products.TasteRow{row("a", "b")}}, nil, zap.NewNop().Sugar())

	res := svc.Generate(context.Background(), 1)

	assert.False(t, res.Success)
	assert.True(t, res.NeedsAPIKey)
	assert.Empty(t, res.Suggestions)
}

func TestGenerate_EmptyShelfSucceedsWithoutModelCall(t *testing.T) {
	model := &fakeModel{}
	svc := NewService(&fakeSource{}, model, zap.NewNop().Sugar())

	res := svc.Generate(context.Background(), 1)

	assert.True(t, res.Success)
	assert.Empty(t, res.Suggestions)
	assert.NotEmpty(t, res.Message)
	assert.Empty(t, res.Error)
	assert.Zero(t, model.calls, "the model must not be called for an empty shelf")
}

func TestGenerate_Success(t *testing.T) {
	model := &fakeModel{raw: validResponse}
	src := &fakeSource{repurchase: []products.TasteRow{row("CeraVe Cleanser", "CeraVe")}}
	svc := NewService(src, model, zap.NewNop().Sugar())

	res := svc.Generate(context.Background(), 1)

	require.True(t, res.Success, res.Error)
	require.Len(t, res.Suggestions, 2)
	assert.Equal(t, "Hydro Boost", res.Suggestions[0].Name)
	assert.Equal(t, []string{"Neutrogena"}, res.Analysis.BrandAffinity)
	assert.Equal(t, 1, model.calls)
}

func TestGenerate_APIKeyErrorClassified(t *testing.T) {
	model := &fakeModel{err: errors.New("401: invalid API key provided")}
	src := &fakeSource{repurchase: []products.TasteRow{row("a", "b")}}
	svc := NewService(src, model, zap.NewNop().Sugar())

	res := svc.Generate(context.Background(), 1)

	assert.False(t, res.Success)
	assert.True(t, res.NeedsAPIKey)
}

func TestGenerate_GenericFailureCarriesMessage(t *testing.T) {
	model := &fakeModel{err: errors.New("rate limit exceeded")}
	src := &fakeSource{repurchase: []products.TasteRow{row("a", "b")}}
	svc := NewService(src, model, zap.NewNop().Sugar())

	res := svc.Generate(context.Background(), 1)

	assert.False(t, res.Success)
	assert.False(t, res.NeedsAPIKey)
	assert.Contains(t, res.Error, "rate limit exceeded")
}

func TestGenerate_InvalidShapeRejected(t *testing.T) {
	model := &fakeModel{raw: `{"suggestions": [{"name": "x", "similarity_score": 130}]}`}
	src := &fakeSource{repurchase: []products.TasteRow{row("a", "b")}}
	svc := NewService(src, model, zap.NewNop().Sugar())

	res := svc.Generate(context.Background(), 1)

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "invalid")
}

func TestDedupe_ByNameAndBrand(t *testing.T) {
	rows := []products.TasteRow{
		row("Cleanser", "CeraVe"),
		row("Cleanser", "CeraVe"),
		row("Cleanser", "Cetaphil"),
		{Name: "Cleanser", Brand: nil},
	}

	out := dedupe(rows)

	require.Len(t, out, 3)
	assert.Equal(t, "CeraVe", *out[0].Brand)
	assert.Equal(t, "Cetaphil", *out[1].Brand)
	assert.Nil(t, out[2].Brand)
}

func TestBuildPrompt_IncludesProductsBrandsCategories(t *testing.T) {
	rows := []products.TasteRow{
		{Name: "Retinol Serum", Brand: strptr("The Ordinary"), Category: strptr("Skincare")},
		{Name: "Mystery Balm"},
	}

	prompt := buildPrompt(rows)

	assert.Contains(t, prompt, "Retinol Serum by The Ordinary (Skincare)")
	assert.Contains(t, prompt, "Mystery Balm by Unknown (Uncategorized)")
	assert.Contains(t, prompt, "PREFERRED BRANDS: The Ordinary")
	assert.Contains(t, prompt, "PREFERRED CATEGORIES: Skincare")
}

func TestStats(t *testing.T) {
	repurchase := string(products.StatusRepurchase)
	finished := string(products.StatusFinished)

	src := &fakeSource{taste: []products.TasteRow{
		{Name: "a", Brand: strptr("CeraVe"), Category: strptr("Skincare"), Rating: i16ptr(5), UsageStatus: &repurchase},
		{Name: "b", Brand: strptr("CeraVe"), Category: strptr("Skincare"), Rating: i16ptr(4), UsageStatus: &finished},
		{Name: "c", Brand: strptr("Laneige"), Category: strptr("Makeup"), Rating: i16ptr(2), UsageStatus: &finished},
		{Name: "d", Brand: strptr("Aesop"), Category: strptr("Haircare"), Rating: nil, UsageStatus: nil},
	}}
	svc := NewService(src, nil, zap.NewNop().Sugar())

	stats, err := svc.Stats(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalProducts)
	assert.Equal(t, 1, stats.RepurchaseProducts)
	assert.Equal(t, 2, stats.HighRatedProducts)
	assert.Equal(t, []string{"Skincare", "Haircare", "Makeup"}, stats.TopCategories)
	assert.Equal(t, []string{"CeraVe", "Aesop", "Laneige"}, stats.TopBrands)
}

func TestTopN_TieBreakIsLexicographic(t *testing.T) {
	counts := map[string]int{"zeta": 2, "alpha": 2, "mid": 3, "solo": 1}

	assert.Equal(t, []string{"mid", "alpha", "zeta"}, topN(counts, 3))
}
