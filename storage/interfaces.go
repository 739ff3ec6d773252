package storage

import "market-intel/models"

// RecommendationStore is the interface any pricing sink must satisfy.
type RecommendationStore interface {
	Write(rows []*models.PricingWithSentiment) error
	FetchAll() ([]*models.PricingWithSentiment, error)
	Close() error
}
