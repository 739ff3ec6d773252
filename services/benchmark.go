package services

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"market-intel/models"
	"market-intel/utils"
)

// BenchmarkService builds the per-merchant benchmark table from transactions,
// competitor prices and merchant attributes.
type BenchmarkService struct {
	logger *utils.Logger
}

// NewBenchmarkService creates a BenchmarkService with the given logger.
func NewBenchmarkService(logger *utils.Logger) *BenchmarkService {
	return &BenchmarkService{logger: logger}
}

// productComparison is the per-product competitor aggregate joined onto
// transactions before the merchant-level roll-up.
type productComparison struct {
	avgCompetitorPrice float64
	merchantPrice      float64
	priceGap           float64
}

// Build produces one row per merchant present in transactions, sorted by
// merchant id. Competitor metrics use skip-NA means: transactions whose
// product has no competitor observations simply contribute nothing to them.
// Merchants absent from the merchants table keep their row with missing
// attributes. Empty transactions yield an empty (schema-correct) table.
func (s *BenchmarkService) Build(
	txs []*models.Transaction,
	prices []*models.CompetitorPrice,
	merchants []*models.Merchant,
) []*models.BenchmarkRow {
	type salesAcc struct {
		revenue  float64
		price    []float64
		quantity []float64
		products map[string]struct{}
	}
	sales := make(map[string]*salesAcc)
	for _, tx := range txs {
		acc := sales[tx.MerchantID]
		if acc == nil {
			acc = &salesAcc{products: make(map[string]struct{})}
			sales[tx.MerchantID] = acc
		}
		acc.revenue += tx.Revenue
		acc.price = append(acc.price, tx.Price)
		acc.quantity = append(acc.quantity, float64(tx.Quantity))
		acc.products[tx.ProductID] = struct{}{}
	}

	// Per-product competitor aggregates.
	type compAcc struct {
		competitor []float64
		merchant   []float64
	}
	perProduct := make(map[string]*compAcc)
	for _, p := range prices {
		acc := perProduct[p.ProductID]
		if acc == nil {
			acc = &compAcc{}
			perProduct[p.ProductID] = acc
		}
		acc.competitor = append(acc.competitor, p.CompetitorPrice)
		acc.merchant = append(acc.merchant, p.MerchantPrice)
	}
	comparisons := make(map[string]productComparison, len(perProduct))
	for productID, acc := range perProduct {
		avgComp := stat.Mean(acc.competitor, nil)
		merchPrice := stat.Mean(acc.merchant, nil)
		comparisons[productID] = productComparison{
			avgCompetitorPrice: avgComp,
			merchantPrice:      merchPrice,
			priceGap:           avgComp - merchPrice,
		}
	}

	// Left-join transactions with per-product comparisons, then roll up to
	// merchant level. Products without competitor data are skipped by the
	// mean, not by the row.
	type mergedAcc struct {
		merchantPrice []float64
		avgCompetitor []float64
		priceGap      []float64
	}
	merged := make(map[string]*mergedAcc)
	for _, tx := range txs {
		acc := merged[tx.MerchantID]
		if acc == nil {
			acc = &mergedAcc{}
			merged[tx.MerchantID] = acc
		}
		cmp, ok := comparisons[tx.ProductID]
		if !ok {
			continue
		}
		acc.merchantPrice = append(acc.merchantPrice, cmp.merchantPrice)
		acc.avgCompetitor = append(acc.avgCompetitor, cmp.avgCompetitorPrice)
		acc.priceGap = append(acc.priceGap, cmp.priceGap)
	}

	attrs := make(map[string]*models.Merchant, len(merchants))
	for _, m := range merchants {
		attrs[m.MerchantID] = m
	}

	merchantIDs := make([]string, 0, len(sales))
	for id := range sales {
		merchantIDs = append(merchantIDs, id)
	}
	sort.Strings(merchantIDs)

	rows := make([]*models.BenchmarkRow, 0, len(merchantIDs))
	for _, id := range merchantIDs {
		acc := sales[id]
		row := &models.BenchmarkRow{
			MerchantID:         id,
			TotalRevenue:       acc.revenue,
			AvgPrice:           stat.Mean(acc.price, nil),
			AvgQuantity:        stat.Mean(acc.quantity, nil),
			TotalProducts:      len(acc.products),
			MerchantAvgPrice:   skipNAMean(merged[id].merchantPrice),
			CompetitorAvgPrice: skipNAMean(merged[id].avgCompetitor),
			PriceGapAvg:        skipNAMean(merged[id].priceGap),
			AvgMonthlySales:    models.Missing(),
			NumOrdersMonth:     models.Missing(),
		}
		if m, ok := attrs[id]; ok {
			row.MerchantName = m.MerchantName
			row.Category = m.Category
			row.Region = m.Region
			row.AvgMonthlySales = m.AvgMonthlySales
			row.NumOrdersMonth = float64(m.NumOrdersMonth)
		}
		rows = append(rows, row)
	}

	s.logger.Info("[benchmark] Built %d merchant rows from %d transactions and %d competitor rows",
		len(rows), len(txs), len(prices))
	return rows
}

// skipNAMean is the mean over the defined values only; all-missing (or empty)
// input yields the missing sentinel.
func skipNAMean(vals []float64) float64 {
	defined := vals[:0:0]
	for _, v := range vals {
		if !models.IsMissing(v) {
			defined = append(defined, v)
		}
	}
	if len(defined) == 0 {
		return models.Missing()
	}
	return stat.Mean(defined, nil)
}
