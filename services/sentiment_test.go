package services

import (
	"testing"

	"market-intel/models"
)

// stubScorer maps exact texts to fixed scores.
type stubScorer map[string]float64

func (s stubScorer) Score(text string) float64 { return s[text] }

func review(productID, text string) *models.Review {
	return &models.Review{ReviewID: "R00001", ProductID: productID, Review: text, Rating: 3}
}

func TestProductSentimentAggregation(t *testing.T) {
	scorer := stubScorer{"good": 0.8, "bad": -0.4, "great": 1.0}
	svc := NewSentimentService(scorer, newTestLogger())

	reviews := []*models.Review{
		review("P0002", "great"),
		review("P0001", "good"),
		review("P0001", "bad"),
	}

	out := svc.ProductSentiment(reviews)
	if len(out) != 2 {
		t.Fatalf("expected 2 products, got %d", len(out))
	}
	if out[0].ProductID != "P0001" || out[1].ProductID != "P0002" {
		t.Errorf("products not sorted by id: %q, %q", out[0].ProductID, out[1].ProductID)
	}
	if !almostEqual(out[0].AvgProductSentiment, 0.2) {
		t.Errorf("P0001 mean sentiment: got %v, want 0.2", out[0].AvgProductSentiment)
	}
	if out[1].AvgProductSentiment != 1.0 {
		t.Errorf("P0002 mean sentiment: got %v, want 1.0", out[1].AvgProductSentiment)
	}
}

func TestProductSentimentEmptyInput(t *testing.T) {
	svc := NewSentimentService(stubScorer{}, newTestLogger())
	if out := svc.ProductSentiment(nil); len(out) != 0 {
		t.Errorf("expected empty output for no reviews, got %d rows", len(out))
	}
}

func TestMergeLeftJoinKeepsUnreviewedProducts(t *testing.T) {
	svc := NewSentimentService(stubScorer{}, newTestLogger())

	pricing := []*models.PricingRecommendation{
		{ProductID: "P0001", MerchantID: "M001", Competitor: "CompA", MerchantPrice: 100},
		{ProductID: "P0003", MerchantID: "M001", Competitor: "CompA", MerchantPrice: 50},
	}
	sentiment := []*models.ProductSentiment{
		{ProductID: "P0001", AvgProductSentiment: 0.5},
		{ProductID: "P0002", AvgProductSentiment: -0.5},
	}

	out := svc.Merge(pricing, sentiment)
	if len(out) != 2 {
		t.Fatalf("left join must keep all pricing rows, got %d", len(out))
	}
	if out[0].AvgProductSentiment != 0.5 {
		t.Errorf("P0001 sentiment: got %v, want 0.5", out[0].AvgProductSentiment)
	}
	if !models.IsMissing(out[1].AvgProductSentiment) {
		t.Errorf("P0003 has no reviews, sentiment should be missing: got %v", out[1].AvgProductSentiment)
	}
	if out[1].MerchantPrice != 50 {
		t.Errorf("pricing columns must carry through the join")
	}
}

func TestVaderScorerRange(t *testing.T) {
	scorer := VaderScorer{}

	texts := []string{
		"Great product, fast delivery.",
		"Exceeded expectations, highly recommend!",
		"Product quality was below expectation.",
		"Mediocre experience overall.",
		"Packaging was damaged, but product is fine.",
	}
	for _, text := range texts {
		score := scorer.Score(text)
		if score < -1 || score > 1 {
			t.Errorf("Score(%q) = %v, outside [-1, 1]", text, score)
		}
	}

	if scorer.Score("Great product, fast delivery.") <= 0 {
		t.Errorf("clearly positive text scored non-positive")
	}
}
