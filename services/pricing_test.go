package services

import (
	"testing"

	"market-intel/models"
)

func compRow(competitorPrice, merchantPrice float64) *models.CompetitorPrice {
	return &models.CompetitorPrice{
		ProductID: "P0001", MerchantID: "M001", Competitor: "CompA",
		CompetitorPrice: competitorPrice, MerchantPrice: merchantPrice,
	}
}

func TestPricingThresholds(t *testing.T) {
	svc := NewPricingService(newTestLogger())

	tests := []struct {
		name            string
		competitorPrice float64
		merchantPrice   float64
		want            models.Action
	}{
		{"well above", 110, 100, models.ActionIncrease},
		{"just above", 105.0001, 100, models.ActionIncrease},
		{"exactly +5%", 105, 100, models.ActionKeep},
		{"inside band", 102, 100, models.ActionKeep},
		{"exactly -5%", 95, 100, models.ActionKeep},
		{"just below", 94.9999, 100, models.ActionDecrease},
		{"well below", 90, 100, models.ActionDecrease},
	}

	for _, tt := range tests {
		recs := svc.Recommend([]*models.CompetitorPrice{compRow(tt.competitorPrice, tt.merchantPrice)})
		if got := recs[0].Recommendation; got != tt.want {
			t.Errorf("%s: recommendation = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPricingScenario(t *testing.T) {
	svc := NewPricingService(newTestLogger())
	r := svc.Recommend([]*models.CompetitorPrice{compRow(110, 100)})[0]

	if r.PriceGap != 10 {
		t.Errorf("PriceGap: got %.2f, want 10", r.PriceGap)
	}
	if r.PctDiff != 10 {
		t.Errorf("PctDiff: got %.4f, want 10", r.PctDiff)
	}
	if r.Recommendation != models.ActionIncrease {
		t.Errorf("Recommendation: got %q, want Increase Price", r.Recommendation)
	}
	if r.SuggestedPrice != 105 {
		t.Errorf("SuggestedPrice: got %.2f, want 105", r.SuggestedPrice)
	}
}

func TestPricingSuggestedPrices(t *testing.T) {
	svc := NewPricingService(newTestLogger())

	tests := []struct {
		competitorPrice float64
		merchantPrice   float64
		want            float64
	}{
		{120, 100, 105},   // increase
		{80, 100, 95},     // decrease
		{101, 100, 100},   // keep: exact merchant price
		{120, 33.33, 35},  // 34.9965 rounds to cents
		{80, 19.99, 18.99}, // 18.9905 rounds to cents
	}

	for _, tt := range tests {
		r := svc.Recommend([]*models.CompetitorPrice{compRow(tt.competitorPrice, tt.merchantPrice)})[0]
		if r.SuggestedPrice != tt.want {
			t.Errorf("comp=%.2f merch=%.2f: suggested %.4f, want %.2f",
				tt.competitorPrice, tt.merchantPrice, r.SuggestedPrice, tt.want)
		}
	}
}

func TestPricingKeepSameRoundTrip(t *testing.T) {
	svc := NewPricingService(newTestLogger())
	// A price inside the band must come back bit-identical, not re-rounded.
	merchantPrice := 123.456789
	r := svc.Recommend([]*models.CompetitorPrice{compRow(merchantPrice, merchantPrice)})[0]

	if r.Recommendation != models.ActionKeep {
		t.Fatalf("Recommendation: got %q, want Keep Same", r.Recommendation)
	}
	if r.SuggestedPrice != merchantPrice {
		t.Errorf("SuggestedPrice: got %v, want exactly %v", r.SuggestedPrice, merchantPrice)
	}
}

func TestPricingZeroMerchantPrice(t *testing.T) {
	svc := NewPricingService(newTestLogger())
	recs := svc.Recommend([]*models.CompetitorPrice{compRow(50, 0)})

	if len(recs) != 1 {
		t.Fatalf("zero-price row must not be dropped, got %d rows", len(recs))
	}
	r := recs[0]
	if !models.IsMissing(r.PctDiff) {
		t.Errorf("PctDiff should be missing for zero merchant price, got %v", r.PctDiff)
	}
	if r.Recommendation != models.ActionKeep {
		t.Errorf("Recommendation: got %q, want Keep Same", r.Recommendation)
	}
	if r.SuggestedPrice != 0 {
		t.Errorf("SuggestedPrice: got %v, want 0", r.SuggestedPrice)
	}
}

func TestPricingOneRowPerInput(t *testing.T) {
	svc := NewPricingService(newTestLogger())
	input := []*models.CompetitorPrice{
		compRow(110, 100), compRow(90, 100), compRow(100, 100),
	}

	recs := svc.Recommend(input)
	if len(recs) != len(input) {
		t.Fatalf("expected %d rows, got %d", len(input), len(recs))
	}
	for i, r := range recs {
		if r.CompetitorPrice != input[i].CompetitorPrice {
			t.Errorf("row %d out of input order", i)
		}
	}
}
