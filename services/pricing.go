package services

import (
	"math"

	"market-intel/models"
	"market-intel/utils"
)

// pctThreshold is the percentage gap beyond which a price change is
// recommended. The comparison is strict: exactly ±5 keeps the price.
const pctThreshold = 5.0

// PricingService derives per-row pricing recommendations from competitor
// price observations.
type PricingService struct {
	logger *utils.Logger
}

// NewPricingService creates a PricingService with the given logger.
func NewPricingService(logger *utils.Logger) *PricingService {
	return &PricingService{logger: logger}
}

// Recommend produces exactly one recommendation per input row, in input
// order. A zero merchant price makes pct_diff undefined; such rows keep
// their price with a missing pct_diff instead of being dropped.
func (s *PricingService) Recommend(prices []*models.CompetitorPrice) []*models.PricingRecommendation {
	recs := make([]*models.PricingRecommendation, 0, len(prices))
	zeroPrice := 0

	for _, p := range prices {
		gap := p.CompetitorPrice - p.MerchantPrice
		pctDiff := models.Missing()
		if p.MerchantPrice != 0 {
			pctDiff = gap / p.MerchantPrice * 100
		} else {
			zeroPrice++
		}

		action := recommend(pctDiff)
		recs = append(recs, &models.PricingRecommendation{
			ProductID:       p.ProductID,
			MerchantID:      p.MerchantID,
			Competitor:      p.Competitor,
			CompetitorPrice: p.CompetitorPrice,
			MerchantPrice:   p.MerchantPrice,
			Date:            p.Date,
			PriceGap:        gap,
			PctDiff:         pctDiff,
			Recommendation:  action,
			SuggestedPrice:  suggestPrice(action, p.MerchantPrice),
		})
	}

	if zeroPrice > 0 {
		s.logger.Warn("[pricing] %d rows with zero merchant_price — pct_diff left missing, price kept", zeroPrice)
	}
	s.logger.Info("[pricing] Recommended actions for %d competitor price rows", len(recs))
	return recs
}

// recommend maps a percentage difference to an action. Missing input (zero
// merchant price) falls through to keeping the price.
func recommend(pctDiff float64) models.Action {
	switch {
	case pctDiff > pctThreshold:
		return models.ActionIncrease
	case pctDiff < -pctThreshold:
		return models.ActionDecrease
	default:
		return models.ActionKeep
	}
}

// suggestPrice is total over the action enum: ±5% on a change, the exact
// merchant price otherwise. Adjusted prices are rounded to cents.
func suggestPrice(action models.Action, merchantPrice float64) float64 {
	switch action {
	case models.ActionIncrease:
		return roundCents(merchantPrice * 1.05)
	case models.ActionDecrease:
		return roundCents(merchantPrice * 0.95)
	default:
		return merchantPrice
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
