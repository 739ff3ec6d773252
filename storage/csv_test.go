package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"market-intel/models"
)

func TestTransactionsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	want := []*models.Transaction{
		{
			Date:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			MerchantID: "M001", ProductID: "P0001",
			Price: 19.99, Quantity: 2, Revenue: 39.98,
		},
		{
			Date:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			MerchantID: "M002", ProductID: "P0002",
			Price: 5, Quantity: 1, Revenue: 5,
		},
	}

	if err := SaveTransactions(path, want); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}
	got, err := LoadTransactions(path)
	if err != nil {
		t.Fatalf("LoadTransactions: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if *got[i] != *want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBenchmarkRoundTripWithMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmarking_output.csv")
	rows := []*models.BenchmarkRow{
		{
			MerchantID: "M001", TotalRevenue: 50, AvgPrice: 13.5, AvgQuantity: 1.5,
			TotalProducts: 2,
			// No competitor data and no merchant attributes.
			MerchantAvgPrice: models.Missing(), CompetitorAvgPrice: models.Missing(),
			PriceGapAvg: models.Missing(), AvgMonthlySales: models.Missing(),
			NumOrdersMonth: models.Missing(),
		},
	}

	if err := SaveBenchmark(path, rows); err != nil {
		t.Fatalf("SaveBenchmark: %v", err)
	}
	got, err := LoadBenchmark(path)
	if err != nil {
		t.Fatalf("LoadBenchmark: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}

	r := got[0]
	if r.TotalRevenue != 50 || r.TotalProducts != 2 {
		t.Errorf("defined fields lost in round trip: %+v", r)
	}
	if !models.IsMissing(r.MerchantAvgPrice) || !models.IsMissing(r.AvgMonthlySales) {
		t.Errorf("missing cells must come back as missing: %+v", r)
	}
}

func TestPricingRoundTripRecommendation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing_recommendations.csv")
	rows := []*models.PricingRecommendation{
		{
			ProductID: "P0001", MerchantID: "M001", Competitor: "CompA",
			CompetitorPrice: 110, MerchantPrice: 100,
			PriceGap: 10, PctDiff: 10,
			Recommendation: models.ActionIncrease, SuggestedPrice: 105,
		},
		{
			ProductID: "P0002", MerchantID: "M001", Competitor: "CompB",
			CompetitorPrice: 50, MerchantPrice: 0,
			PriceGap: 50, PctDiff: models.Missing(),
			Recommendation: models.ActionKeep, SuggestedPrice: 0,
		},
	}

	if err := SavePricing(path, rows); err != nil {
		t.Fatalf("SavePricing: %v", err)
	}
	got, err := LoadPricing(path)
	if err != nil {
		t.Fatalf("LoadPricing: %v", err)
	}

	if got[0].Recommendation != models.ActionIncrease {
		t.Errorf("row 0 recommendation: got %q", got[0].Recommendation)
	}
	if got[1].Recommendation != models.ActionKeep {
		t.Errorf("row 1 recommendation: got %q", got[1].Recommendation)
	}
	if !models.IsMissing(got[1].PctDiff) {
		t.Errorf("missing pct_diff must survive the round trip, got %v", got[1].PctDiff)
	}
}

func TestEmptyTableIsSchemaCorrect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmarking_output.csv")
	if err := SaveBenchmark(path, nil); err != nil {
		t.Fatalf("SaveBenchmark: %v", err)
	}

	got, err := LoadBenchmark(path)
	if err != nil {
		t.Fatalf("LoadBenchmark on empty table: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 rows, got %d", len(got))
	}
}

func TestMissingInputFile(t *testing.T) {
	_, err := LoadTransactions(filepath.Join(t.TempDir(), "transactions.csv"))
	if !errors.Is(err, ErrMissingInput) {
		t.Errorf("expected ErrMissingInput, got %v", err)
	}
}

func TestSchemaMismatchNamesColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	// Header without the price column.
	content := "date,merchant_id,product_id,quantity,revenue\n2026-03-01,M001,P0001,1,10\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadTransactions(path)
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	if !strings.Contains(err.Error(), `"price"`) {
		t.Errorf("error should name the missing column, got: %v", err)
	}
}
