package services

import (
	"sort"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
	"gonum.org/v1/gonum/stat"

	"market-intel/models"
	"market-intel/utils"
)

// Scorer maps free review text to a polarity score in [-1, 1].
type Scorer interface {
	Score(text string) float64
}

// VaderScorer scores text with the VADER sentiment lexicon. It is pure and
// needs no external state.
type VaderScorer struct{}

// Score returns the compound VADER polarity of text.
func (VaderScorer) Score(text string) float64 {
	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	return sentitext.PolarityScore(parsed).Compound
}

// SentimentService scores reviews and folds mean product sentiment into the
// pricing recommendations.
type SentimentService struct {
	scorer Scorer
	logger *utils.Logger
}

// NewSentimentService creates a SentimentService using the given scorer.
func NewSentimentService(scorer Scorer, logger *utils.Logger) *SentimentService {
	return &SentimentService{scorer: scorer, logger: logger}
}

// ProductSentiment scores every review and returns the mean sentiment per
// product, sorted by product id.
func (s *SentimentService) ProductSentiment(reviews []*models.Review) []*models.ProductSentiment {
	scores := make(map[string][]float64)
	for _, r := range reviews {
		scores[r.ProductID] = append(scores[r.ProductID], s.scorer.Score(r.Review))
	}

	productIDs := make([]string, 0, len(scores))
	for id := range scores {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	out := make([]*models.ProductSentiment, 0, len(productIDs))
	for _, id := range productIDs {
		out = append(out, &models.ProductSentiment{
			ProductID:           id,
			AvgProductSentiment: stat.Mean(scores[id], nil),
		})
	}

	s.logger.Info("[sentiment] Scored %d reviews across %d products", len(reviews), len(out))
	return out
}

// Merge left-joins mean product sentiment onto the pricing recommendations.
// Rows for products with no reviews keep a missing sentiment, not dropped.
func (s *SentimentService) Merge(
	pricing []*models.PricingRecommendation,
	sentiment []*models.ProductSentiment,
) []*models.PricingWithSentiment {
	byProduct := make(map[string]float64, len(sentiment))
	for _, p := range sentiment {
		byProduct[p.ProductID] = p.AvgProductSentiment
	}

	out := make([]*models.PricingWithSentiment, 0, len(pricing))
	for _, r := range pricing {
		avg := models.Missing()
		if v, ok := byProduct[r.ProductID]; ok {
			avg = v
		}
		out = append(out, &models.PricingWithSentiment{
			PricingRecommendation: *r,
			AvgProductSentiment:   avg,
		})
	}
	return out
}
