package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"market-intel/config"
	"market-intel/models"
	"market-intel/utils"
)

var (
	categories  = []string{"Electronics", "Home", "Fashion", "Beauty", "Grocery"}
	regions     = []string{"US", "AU"}
	competitors = []string{"CompA", "CompB", "CompC"}

	reviewTexts = []string{
		"Great product, fast delivery.",
		"Good value for money.",
		"Product quality was below expectation.",
		"Exceeded expectations, highly recommend!",
		"Packaging was damaged, but product is fine.",
		"Customer service did not respond.",
		"Five stars, will buy again.",
		"Size/color not as described.",
		"Amazing build quality and easy to use.",
		"Mediocre experience overall.",
	}
)

// Generator produces the synthetic base tables. All randomness flows through
// a single seeded source so a given seed always yields identical fixtures.
type Generator struct {
	cfg    *config.Config
	logger *utils.Logger
	rng    *rand.Rand
	today  time.Time
}

// New creates a Generator seeded from the config.
func New(cfg *config.Config, logger *utils.Logger) *Generator {
	now := time.Now().UTC()
	return &Generator{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		today:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// Merchants generates the merchants table.
func (g *Generator) Merchants() []*models.Merchant {
	merchants := make([]*models.Merchant, 0, g.cfg.NumMerchants)
	for i := 1; i <= g.cfg.NumMerchants; i++ {
		merchants = append(merchants, &models.Merchant{
			MerchantID:      fmt.Sprintf("M%03d", i),
			MerchantName:    fmt.Sprintf("Merchant_%d", i),
			Category:        categories[g.rng.Intn(len(categories))],
			Region:          regions[g.rng.Intn(len(regions))],
			AvgMonthlySales: round2(g.uniform(5000, 50000)),
			NumOrdersMonth:  50 + g.rng.Intn(1951),
		})
	}
	g.logger.Info("[generator] Generated %d merchants", len(merchants))
	return merchants
}

// Products generates the products table.
func (g *Generator) Products() []*models.Product {
	products := make([]*models.Product, 0, g.cfg.NumProducts)
	for i := 1; i <= g.cfg.NumProducts; i++ {
		products = append(products, &models.Product{
			ProductID:   fmt.Sprintf("P%04d", i),
			ProductName: fmt.Sprintf("Product_%d", i),
			Category:    categories[g.rng.Intn(len(categories))],
		})
	}
	g.logger.Info("[generator] Generated %d products", len(products))
	return products
}

// Transactions generates the transactions table: a Poisson-distributed number
// of sales per day over the configured history window, ending yesterday.
// Revenue is always round2(price * quantity).
func (g *Generator) Transactions(merchants []*models.Merchant, products []*models.Product) []*models.Transaction {
	var txs []*models.Transaction
	start := g.today.AddDate(0, 0, -g.cfg.HistoryDays)

	for day := 0; day < g.cfg.HistoryDays; day++ {
		date := start.AddDate(0, 0, day)
		n := g.poisson(g.cfg.AvgTxPerDay)
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			price := round2(g.uniform(5, 500))
			qty := g.quantity()
			txs = append(txs, &models.Transaction{
				Date:       date,
				MerchantID: merchants[g.rng.Intn(len(merchants))].MerchantID,
				ProductID:  products[g.rng.Intn(len(products))].ProductID,
				Price:      price,
				Quantity:   qty,
				Revenue:    round2(price * float64(qty)),
			})
		}
	}
	g.logger.Info("[generator] Generated %d transactions over %d days", len(txs), g.cfg.HistoryDays)
	return txs
}

// CompetitorPrices generates competitor observations: per product, a base
// price, a random half of the merchants, and one row per competitor.
func (g *Generator) CompetitorPrices(products []*models.Product, merchants []*models.Merchant) []*models.CompetitorPrice {
	var prices []*models.CompetitorPrice
	for _, p := range products {
		base := round2(g.uniform(10, 400))
		for _, m := range g.sampleMerchants(merchants) {
			merchantPrice := round2(base * g.uniform(0.8, 1.2))
			for _, comp := range competitors {
				prices = append(prices, &models.CompetitorPrice{
					ProductID:       p.ProductID,
					MerchantID:      m.MerchantID,
					Competitor:      comp,
					CompetitorPrice: round2(base * g.uniform(0.85, 1.25)),
					MerchantPrice:   merchantPrice,
					Date:            g.today,
				})
			}
		}
	}
	g.logger.Info("[generator] Generated %d competitor price rows", len(prices))
	return prices
}

// Reviews generates the reviews table from a fixed set of sample texts.
func (g *Generator) Reviews(products []*models.Product) []*models.Review {
	reviews := make([]*models.Review, 0, g.cfg.NumReviews)
	for i := 0; i < g.cfg.NumReviews; i++ {
		reviews = append(reviews, &models.Review{
			ReviewID:  fmt.Sprintf("R%05d", i),
			ProductID: products[g.rng.Intn(len(products))].ProductID,
			Review:    reviewTexts[g.rng.Intn(len(reviewTexts))],
			Rating:    1 + g.rng.Intn(5),
			Date:      g.today.AddDate(0, 0, -g.rng.Intn(366)),
		})
	}
	g.logger.Info("[generator] Generated %d reviews", len(reviews))
	return reviews
}

// sampleMerchants picks max(3, n/2) distinct merchants.
func (g *Generator) sampleMerchants(merchants []*models.Merchant) []*models.Merchant {
	n := len(merchants) / 2
	if n < 3 {
		n = 3
	}
	if n > len(merchants) {
		n = len(merchants)
	}
	picked := make([]*models.Merchant, 0, n)
	for _, idx := range g.rng.Perm(len(merchants))[:n] {
		picked = append(picked, merchants[idx])
	}
	return picked
}

// quantity draws from the weighted set {1: 180, 2: 20, 3: 5}.
func (g *Generator) quantity() int {
	switch r := g.rng.Intn(205); {
	case r < 180:
		return 1
	case r < 200:
		return 2
	default:
		return 3
	}
}

// poisson draws a Poisson-distributed count via Knuth's method. Fine for the
// small lambdas used here.
func (g *Generator) poisson(lambda float64) int {
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= g.rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
