package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"market-intel/models"
)

// writeCSV creates (or truncates) the CSV file at path, writing the header
// row followed by rows. Intermediate directories are created automatically.
// Each run fully rewrites the file, matching the recompute-and-overwrite
// lifecycle of every derived table.
func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush %q: %w", path, err)
	}
	return f.Close()
}

// fmtFloat renders a numeric cell; the missing sentinel becomes an empty cell.
func fmtFloat(v float64) string {
	if models.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// SaveMerchants writes the merchants base table.
func SaveMerchants(path string, merchants []*models.Merchant) error {
	rows := make([][]string, 0, len(merchants))
	for _, m := range merchants {
		rows = append(rows, []string{
			m.MerchantID, m.MerchantName, m.Category, m.Region,
			fmtFloat(m.AvgMonthlySales), strconv.Itoa(m.NumOrdersMonth),
		})
	}
	return writeCSV(path, []string{
		"merchant_id", "merchant_name", "category", "region", "avg_monthly_sales", "num_orders_month",
	}, rows)
}

// SaveProducts writes the products base table.
func SaveProducts(path string, products []*models.Product) error {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{p.ProductID, p.ProductName, p.Category})
	}
	return writeCSV(path, []string{"product_id", "product_name", "category"}, rows)
}

// SaveTransactions writes the transactions base table.
func SaveTransactions(path string, txs []*models.Transaction) error {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			fmtDate(tx.Date), tx.MerchantID, tx.ProductID,
			fmtFloat(tx.Price), strconv.Itoa(tx.Quantity), fmtFloat(tx.Revenue),
		})
	}
	return writeCSV(path, []string{
		"date", "merchant_id", "product_id", "price", "quantity", "revenue",
	}, rows)
}

// SaveCompetitorPrices writes the competitor_prices base table.
func SaveCompetitorPrices(path string, prices []*models.CompetitorPrice) error {
	rows := make([][]string, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, []string{
			p.ProductID, p.MerchantID, p.Competitor,
			fmtFloat(p.CompetitorPrice), fmtFloat(p.MerchantPrice), fmtDate(p.Date),
		})
	}
	return writeCSV(path, []string{
		"product_id", "merchant_id", "competitor", "competitor_price", "merchant_price", "date",
	}, rows)
}

// SaveReviews writes the reviews base table.
func SaveReviews(path string, reviews []*models.Review) error {
	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		rows = append(rows, []string{
			r.ReviewID, r.ProductID, r.Review, strconv.Itoa(r.Rating), fmtDate(r.Date),
		})
	}
	return writeCSV(path, []string{"review_id", "product_id", "review", "rating", "date"}, rows)
}

var benchmarkHeader = []string{
	"merchant_id", "total_revenue", "avg_price", "avg_quantity", "total_products",
	"merchant_avg_price", "competitor_avg_price", "price_gap_avg",
	"merchant_name", "category", "region", "avg_monthly_sales", "num_orders_month",
}

func benchmarkCells(b *models.BenchmarkRow) []string {
	return []string{
		b.MerchantID,
		fmtFloat(b.TotalRevenue), fmtFloat(b.AvgPrice), fmtFloat(b.AvgQuantity),
		strconv.Itoa(b.TotalProducts),
		fmtFloat(b.MerchantAvgPrice), fmtFloat(b.CompetitorAvgPrice), fmtFloat(b.PriceGapAvg),
		b.MerchantName, b.Category, b.Region,
		fmtFloat(b.AvgMonthlySales), fmtFloat(b.NumOrdersMonth),
	}
}

// SaveBenchmark writes the benchmarking output table.
func SaveBenchmark(path string, rows []*models.BenchmarkRow) error {
	out := make([][]string, 0, len(rows))
	for _, b := range rows {
		out = append(out, benchmarkCells(b))
	}
	return writeCSV(path, benchmarkHeader, out)
}

// SaveMerchantClusters writes benchmark rows with their cluster labels.
func SaveMerchantClusters(path string, rows []*models.MerchantCluster) error {
	header := append(append([]string{}, benchmarkHeader...), "cluster")
	out := make([][]string, 0, len(rows))
	for _, c := range rows {
		out = append(out, append(benchmarkCells(&c.BenchmarkRow), strconv.Itoa(c.Cluster)))
	}
	return writeCSV(path, header, out)
}

// SaveForecast writes the forecasting output table.
func SaveForecast(path string, rows []*models.ForecastRow) error {
	out := make([][]string, 0, len(rows))
	for _, f := range rows {
		out = append(out, []string{fmtDate(f.Date), fmtFloat(f.ForecastRevenue)})
	}
	return writeCSV(path, []string{"date", "forecast_revenue"}, out)
}

var pricingHeader = []string{
	"product_id", "merchant_id", "competitor", "competitor_price", "merchant_price",
	"date", "price_gap", "pct_diff", "recommendation", "suggested_price",
}

func pricingCells(r *models.PricingRecommendation) []string {
	return []string{
		r.ProductID, r.MerchantID, r.Competitor,
		fmtFloat(r.CompetitorPrice), fmtFloat(r.MerchantPrice), fmtDate(r.Date),
		fmtFloat(r.PriceGap), fmtFloat(r.PctDiff),
		r.Recommendation.String(), fmtFloat(r.SuggestedPrice),
	}
}

// SavePricing writes the pricing recommendations table.
func SavePricing(path string, rows []*models.PricingRecommendation) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, pricingCells(r))
	}
	return writeCSV(path, pricingHeader, out)
}

// SaveProductSentiment writes the per-product sentiment table.
func SaveProductSentiment(path string, rows []*models.ProductSentiment) error {
	return saveSentiment(path, "avg_product_sentiment", rows)
}

// SaveMerchantSentiment writes the second per-product sentiment view. The
// original output shape keys this file by product_id as well, so only the
// value column name differs.
func SaveMerchantSentiment(path string, rows []*models.ProductSentiment) error {
	return saveSentiment(path, "avg_merchant_sentiment", rows)
}

func saveSentiment(path, valueCol string, rows []*models.ProductSentiment) error {
	out := make([][]string, 0, len(rows))
	for _, s := range rows {
		out = append(out, []string{s.ProductID, fmtFloat(s.AvgProductSentiment)})
	}
	return writeCSV(path, []string{"product_id", valueCol}, out)
}

// SavePricingWithSentiment writes the pricing table enriched with mean
// product sentiment.
func SavePricingWithSentiment(path string, rows []*models.PricingWithSentiment) error {
	header := append(append([]string{}, pricingHeader...), "avg_product_sentiment")
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, append(pricingCells(&r.PricingRecommendation), fmtFloat(r.AvgProductSentiment)))
	}
	return writeCSV(path, header, out)
}
