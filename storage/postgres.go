package storage

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"market-intel/models"
)

// PostgresWriter persists the final pricing-with-sentiment table to
// PostgreSQL. The sink is optional; the file pipeline is complete without it.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS pricing_recommendations (
			id                    SERIAL PRIMARY KEY,
			product_id            VARCHAR(20)   NOT NULL,
			merchant_id           VARCHAR(20)   NOT NULL,
			competitor            VARCHAR(50)   NOT NULL,
			competitor_price      NUMERIC(10,2) NOT NULL,
			merchant_price        NUMERIC(10,2) NOT NULL,
			price_gap             NUMERIC(10,2) NOT NULL,
			pct_diff              NUMERIC(10,4),
			recommendation        VARCHAR(20)   NOT NULL,
			suggested_price       NUMERIC(10,2) NOT NULL,
			avg_product_sentiment NUMERIC(6,4),
			created_at            TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_pricing_product        ON pricing_recommendations(product_id);
		CREATE INDEX IF NOT EXISTS idx_pricing_merchant       ON pricing_recommendations(merchant_id);
		CREATE INDEX IF NOT EXISTS idx_pricing_recommendation ON pricing_recommendations(recommendation);
	`)
	return err
}

// Clear deletes all existing recommendations from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM pricing_recommendations")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts ALL recommendations, clearing old data first so the
// table always reflects the latest run.
func (pw *PostgresWriter) Write(rows []*models.PricingWithSentiment) error {
	if len(rows) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := pw.insertBatch(rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.PricingWithSentiment) error {
	const cols = 10
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.ProductID, r.MerchantID, r.Competitor,
			r.CompetitorPrice, r.MerchantPrice, r.PriceGap,
			nullable(r.PctDiff), r.Recommendation.String(), r.SuggestedPrice,
			nullable(r.AvgProductSentiment))
	}

	query := fmt.Sprintf(`
		INSERT INTO pricing_recommendations
			(product_id, merchant_id, competitor, competitor_price, merchant_price,
			 price_gap, pct_diff, recommendation, suggested_price, avg_product_sentiment)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// FetchAll retrieves all stored recommendations.
func (pw *PostgresWriter) FetchAll() ([]*models.PricingWithSentiment, error) {
	dbRows, err := pw.db.Query(`
		SELECT product_id, merchant_id, competitor, competitor_price, merchant_price,
		       price_gap, pct_diff, recommendation, suggested_price, avg_product_sentiment
		FROM pricing_recommendations
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer dbRows.Close()

	var rows []*models.PricingWithSentiment
	for dbRows.Next() {
		r := &models.PricingWithSentiment{}
		var pctDiff, sentiment sql.NullFloat64
		var recommendation string
		if err := dbRows.Scan(
			&r.ProductID, &r.MerchantID, &r.Competitor,
			&r.CompetitorPrice, &r.MerchantPrice, &r.PriceGap,
			&pctDiff, &recommendation, &r.SuggestedPrice, &sentiment,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		r.Recommendation = models.ParseAction(recommendation)
		r.PctDiff = fromNullable(pctDiff)
		r.AvgProductSentiment = fromNullable(sentiment)
		rows = append(rows, r)
	}
	return rows, dbRows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return models.Missing()
	}
	return v.Float64
}
