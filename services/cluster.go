package services

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"market-intel/models"
	"market-intel/utils"
)

// ErrTooFewMerchants marks a benchmark table with fewer rows than the
// requested cluster count.
var ErrTooFewMerchants = errors.New("fewer merchants than clusters")

// clusterFeatures is the fixed feature vector used for segmentation.
var clusterFeatures = []func(*models.BenchmarkRow) float64{
	func(b *models.BenchmarkRow) float64 { return b.TotalRevenue },
	func(b *models.BenchmarkRow) float64 { return b.AvgPrice },
	func(b *models.BenchmarkRow) float64 { return b.CompetitorAvgPrice },
	func(b *models.BenchmarkRow) float64 { return b.PriceGapAvg },
	func(b *models.BenchmarkRow) float64 { return b.AvgQuantity },
	func(b *models.BenchmarkRow) float64 { return b.AvgMonthlySales },
	func(b *models.BenchmarkRow) float64 { return b.NumOrdersMonth },
}

// ClusterService partitions merchants into segments over standardized
// benchmark features.
type ClusterService struct {
	logger *utils.Logger
	k      int
	seed   int64
}

// NewClusterService creates a ClusterService assigning k clusters,
// deterministic for the given seed.
func NewClusterService(logger *utils.Logger, k int, seed int64) *ClusterService {
	return &ClusterService{logger: logger, k: k, seed: seed}
}

// Cluster extracts the feature matrix, mean-imputes missing values per
// column, standardizes to z-scores (both fit on this run's rows only) and
// assigns a k-means segment to every merchant. Every input row appears
// exactly once in the output.
func (s *ClusterService) Cluster(bench []*models.BenchmarkRow) ([]*models.MerchantCluster, error) {
	if len(bench) < s.k {
		return nil, fmt.Errorf("cluster: %d merchants, k=%d: %w", len(bench), s.k, ErrTooFewMerchants)
	}

	matrix := make([][]float64, len(bench))
	for i, b := range bench {
		row := make([]float64, len(clusterFeatures))
		for j, feature := range clusterFeatures {
			row[j] = feature(b)
		}
		matrix[i] = row
	}

	imputeColumnMeans(matrix)
	standardize(matrix)

	labels := kMeans(matrix, s.k, s.seed)

	out := make([]*models.MerchantCluster, len(bench))
	for i, b := range bench {
		out[i] = &models.MerchantCluster{BenchmarkRow: *b, Cluster: labels[i]}
	}

	s.logger.Info("[cluster] Assigned %d merchants to %d segments", len(out), s.k)
	return out, nil
}

// imputeColumnMeans replaces missing cells with the mean of their column's
// defined values. A column with no defined values at all becomes zero, which
// standardize then leaves as a constant column.
func imputeColumnMeans(matrix [][]float64) {
	for j := range matrix[0] {
		var defined []float64
		for _, row := range matrix {
			if !models.IsMissing(row[j]) {
				defined = append(defined, row[j])
			}
		}
		mean := 0.0
		if len(defined) > 0 {
			mean = stat.Mean(defined, nil)
		}
		for _, row := range matrix {
			if models.IsMissing(row[j]) {
				row[j] = mean
			}
		}
	}
}

// standardize rescales each column to zero mean and unit variance, in place.
// Constant columns are centered only.
func standardize(matrix [][]float64) {
	col := make([]float64, len(matrix))
	for j := range matrix[0] {
		for i, row := range matrix {
			col[i] = row[j]
		}
		mean := stat.Mean(col, nil)
		std := stat.StdDev(col, nil)
		if std == 0 || models.IsMissing(std) {
			std = 1
		}
		for _, row := range matrix {
			row[j] = (row[j] - mean) / std
		}
	}
}
