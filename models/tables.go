package models

import (
	"math"
	"time"
)

// Missing is the sentinel for an absent numeric value. Derived metrics that
// cannot be computed (no competitor data, no reviews, unknown merchant) carry
// it through the pipeline and serialise to an empty CSV cell.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing-value sentinel.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Merchant is one row of the merchants base table.
type Merchant struct {
	MerchantID      string
	MerchantName    string
	Category        string
	Region          string
	AvgMonthlySales float64
	NumOrdersMonth  int
}

// Product is one row of the products base table.
type Product struct {
	ProductID   string
	ProductName string
	Category    string
}

// Transaction is a single sale event. Revenue is fixed at generation time
// as price * quantity.
type Transaction struct {
	Date       time.Time
	MerchantID string
	ProductID  string
	Price      float64
	Quantity   int
	Revenue    float64
}

// CompetitorPrice is one observed (product, merchant, competitor) price pair.
type CompetitorPrice struct {
	ProductID       string
	MerchantID      string
	Competitor      string
	CompetitorPrice float64
	MerchantPrice   float64
	Date            time.Time
}

// Review is one customer review of a product.
type Review struct {
	ReviewID  string
	ProductID string
	Review    string
	Rating    int
	Date      time.Time
}

// BenchmarkRow holds one merchant's aggregated sales metrics, competitor
// comparison metrics, and merchant attributes. Competitor metrics are
// Missing() when the merchant's products have no competitor observations;
// attribute fields are Missing()/empty when the merchant is not in the
// merchants table.
type BenchmarkRow struct {
	MerchantID         string
	TotalRevenue       float64
	AvgPrice           float64
	AvgQuantity        float64
	TotalProducts      int
	MerchantAvgPrice   float64
	CompetitorAvgPrice float64
	PriceGapAvg        float64
	MerchantName       string
	Category           string
	Region             string
	AvgMonthlySales    float64
	NumOrdersMonth     float64
}

// MerchantCluster is a benchmark row with its assigned segment label.
// Cluster ids are arbitrary in [0, k); they carry no ordering or meaning
// beyond grouping within a single run.
type MerchantCluster struct {
	BenchmarkRow
	Cluster int
}

// ForecastRow is one future day of the flat moving-average forecast.
type ForecastRow struct {
	Date            time.Time
	ForecastRevenue float64
}

// Action is the pricing recommendation for a single competitor-price row.
type Action int

const (
	ActionKeep Action = iota
	ActionIncrease
	ActionDecrease
)

// String returns the display form used in CSV output.
func (a Action) String() string {
	switch a {
	case ActionIncrease:
		return "Increase Price"
	case ActionDecrease:
		return "Decrease Price"
	default:
		return "Keep Same"
	}
}

// ParseAction maps a display string back to its Action. Unknown strings
// parse as ActionKeep.
func ParseAction(s string) Action {
	switch s {
	case "Increase Price":
		return ActionIncrease
	case "Decrease Price":
		return ActionDecrease
	default:
		return ActionKeep
	}
}

// PricingRecommendation is a competitor-price row enriched with the price
// gap, percentage difference, recommended action and suggested price.
// PctDiff is Missing() when MerchantPrice is zero.
type PricingRecommendation struct {
	ProductID       string
	MerchantID      string
	Competitor      string
	CompetitorPrice float64
	MerchantPrice   float64
	Date            time.Time
	PriceGap        float64
	PctDiff         float64
	Recommendation  Action
	SuggestedPrice  float64
}

// ProductSentiment is the mean review sentiment for one product, in [-1, 1].
type ProductSentiment struct {
	ProductID           string
	AvgProductSentiment float64
}

// PricingWithSentiment is a pricing recommendation joined with the mean
// sentiment of its product. AvgProductSentiment is Missing() for products
// with no reviews.
type PricingWithSentiment struct {
	PricingRecommendation
	AvgProductSentiment float64
}
