package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"market-intel/models"
)

// ErrMissingInput marks a stage input file that does not exist, usually
// because the upstream stage never ran.
var ErrMissingInput = errors.New("input file missing")

const dateLayout = "2006-01-02"

// table is a CSV file loaded into memory with its header resolved to
// column indexes.
type table struct {
	path string
	cols map[string]int
	rows [][]string
}

// loadTable reads the whole CSV at path and verifies that every required
// column is present, naming the first absent one in the error.
func loadTable(path string, required ...string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("csv: %q: %w", path, ErrMissingInput)
		}
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %q has no header row", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv: %q is missing column %q", path, name)
		}
	}

	return &table{path: path, cols: cols, rows: records[1:]}, nil
}

func (t *table) str(row []string, col string) string {
	return row[t.cols[col]]
}

// float parses a numeric cell; an empty cell is the missing-value sentinel.
func (t *table) float(row []string, col string) (float64, error) {
	cell := row[t.cols[col]]
	if cell == "" {
		return models.Missing(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("csv: %q column %q: bad number %q", t.path, col, cell)
	}
	return v, nil
}

func (t *table) int(row []string, col string) (int, error) {
	cell := row[t.cols[col]]
	if cell == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("csv: %q column %q: bad integer %q", t.path, col, cell)
	}
	return v, nil
}

func (t *table) date(row []string, col string) (time.Time, error) {
	cell := row[t.cols[col]]
	if cell == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(dateLayout, cell)
	if err != nil {
		return time.Time{}, fmt.Errorf("csv: %q column %q: bad date %q", t.path, col, cell)
	}
	return d, nil
}

// LoadMerchants reads the merchants base table.
func LoadMerchants(path string) ([]*models.Merchant, error) {
	t, err := loadTable(path,
		"merchant_id", "merchant_name", "category", "region", "avg_monthly_sales", "num_orders_month")
	if err != nil {
		return nil, err
	}

	merchants := make([]*models.Merchant, 0, len(t.rows))
	for _, row := range t.rows {
		sales, err := t.float(row, "avg_monthly_sales")
		if err != nil {
			return nil, err
		}
		orders, err := t.int(row, "num_orders_month")
		if err != nil {
			return nil, err
		}
		merchants = append(merchants, &models.Merchant{
			MerchantID:      t.str(row, "merchant_id"),
			MerchantName:    t.str(row, "merchant_name"),
			Category:        t.str(row, "category"),
			Region:          t.str(row, "region"),
			AvgMonthlySales: sales,
			NumOrdersMonth:  orders,
		})
	}
	return merchants, nil
}

// LoadTransactions reads the transactions base table.
func LoadTransactions(path string) ([]*models.Transaction, error) {
	t, err := loadTable(path, "date", "merchant_id", "product_id", "price", "quantity", "revenue")
	if err != nil {
		return nil, err
	}

	txs := make([]*models.Transaction, 0, len(t.rows))
	for _, row := range t.rows {
		date, err := t.date(row, "date")
		if err != nil {
			return nil, err
		}
		price, err := t.float(row, "price")
		if err != nil {
			return nil, err
		}
		qty, err := t.int(row, "quantity")
		if err != nil {
			return nil, err
		}
		revenue, err := t.float(row, "revenue")
		if err != nil {
			return nil, err
		}
		txs = append(txs, &models.Transaction{
			Date:       date,
			MerchantID: t.str(row, "merchant_id"),
			ProductID:  t.str(row, "product_id"),
			Price:      price,
			Quantity:   qty,
			Revenue:    revenue,
		})
	}
	return txs, nil
}

// LoadCompetitorPrices reads the competitor_prices base table.
func LoadCompetitorPrices(path string) ([]*models.CompetitorPrice, error) {
	t, err := loadTable(path,
		"product_id", "merchant_id", "competitor", "competitor_price", "merchant_price", "date")
	if err != nil {
		return nil, err
	}

	prices := make([]*models.CompetitorPrice, 0, len(t.rows))
	for _, row := range t.rows {
		comp, err := t.float(row, "competitor_price")
		if err != nil {
			return nil, err
		}
		merch, err := t.float(row, "merchant_price")
		if err != nil {
			return nil, err
		}
		date, err := t.date(row, "date")
		if err != nil {
			return nil, err
		}
		prices = append(prices, &models.CompetitorPrice{
			ProductID:       t.str(row, "product_id"),
			MerchantID:      t.str(row, "merchant_id"),
			Competitor:      t.str(row, "competitor"),
			CompetitorPrice: comp,
			MerchantPrice:   merch,
			Date:            date,
		})
	}
	return prices, nil
}

// LoadReviews reads the reviews base table.
func LoadReviews(path string) ([]*models.Review, error) {
	t, err := loadTable(path, "review_id", "product_id", "review", "rating", "date")
	if err != nil {
		return nil, err
	}

	reviews := make([]*models.Review, 0, len(t.rows))
	for _, row := range t.rows {
		rating, err := t.int(row, "rating")
		if err != nil {
			return nil, err
		}
		date, err := t.date(row, "date")
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, &models.Review{
			ReviewID:  t.str(row, "review_id"),
			ProductID: t.str(row, "product_id"),
			Review:    t.str(row, "review"),
			Rating:    rating,
			Date:      date,
		})
	}
	return reviews, nil
}

// LoadBenchmark reads a benchmarking output table written by SaveBenchmark.
func LoadBenchmark(path string) ([]*models.BenchmarkRow, error) {
	t, err := loadTable(path,
		"merchant_id", "total_revenue", "avg_price", "avg_quantity", "total_products",
		"merchant_avg_price", "competitor_avg_price", "price_gap_avg",
		"merchant_name", "category", "region", "avg_monthly_sales", "num_orders_month")
	if err != nil {
		return nil, err
	}

	rows := make([]*models.BenchmarkRow, 0, len(t.rows))
	for _, row := range t.rows {
		b := &models.BenchmarkRow{
			MerchantID:   t.str(row, "merchant_id"),
			MerchantName: t.str(row, "merchant_name"),
			Category:     t.str(row, "category"),
			Region:       t.str(row, "region"),
		}
		for col, dst := range map[string]*float64{
			"total_revenue":        &b.TotalRevenue,
			"avg_price":            &b.AvgPrice,
			"avg_quantity":         &b.AvgQuantity,
			"merchant_avg_price":   &b.MerchantAvgPrice,
			"competitor_avg_price": &b.CompetitorAvgPrice,
			"price_gap_avg":        &b.PriceGapAvg,
			"avg_monthly_sales":    &b.AvgMonthlySales,
			"num_orders_month":     &b.NumOrdersMonth,
		} {
			v, err := t.float(row, col)
			if err != nil {
				return nil, err
			}
			*dst = v
		}
		products, err := t.int(row, "total_products")
		if err != nil {
			return nil, err
		}
		b.TotalProducts = products
		rows = append(rows, b)
	}
	return rows, nil
}

// LoadPricing reads a pricing recommendations table written by SavePricing.
func LoadPricing(path string) ([]*models.PricingRecommendation, error) {
	t, err := loadTable(path,
		"product_id", "merchant_id", "competitor", "competitor_price", "merchant_price",
		"date", "price_gap", "pct_diff", "recommendation", "suggested_price")
	if err != nil {
		return nil, err
	}

	recs := make([]*models.PricingRecommendation, 0, len(t.rows))
	for _, row := range t.rows {
		r := &models.PricingRecommendation{
			ProductID:      t.str(row, "product_id"),
			MerchantID:     t.str(row, "merchant_id"),
			Competitor:     t.str(row, "competitor"),
			Recommendation: models.ParseAction(t.str(row, "recommendation")),
		}
		date, err := t.date(row, "date")
		if err != nil {
			return nil, err
		}
		r.Date = date
		for col, dst := range map[string]*float64{
			"competitor_price": &r.CompetitorPrice,
			"merchant_price":   &r.MerchantPrice,
			"price_gap":        &r.PriceGap,
			"pct_diff":         &r.PctDiff,
			"suggested_price":  &r.SuggestedPrice,
		} {
			v, err := t.float(row, col)
			if err != nil {
				return nil, err
			}
			*dst = v
		}
		recs = append(recs, r)
	}
	return recs, nil
}
