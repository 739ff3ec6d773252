package services

import (
	"fmt"
	"sort"
	"strings"

	"market-intel/models"
	"market-intel/utils"
)

// PipelineReport holds the end-of-run summary computed over the output
// tables. It is a consumer only; nothing feeds back into the pipeline.
type PipelineReport struct {
	Merchants       int
	PricingRows     int
	ScoredProducts  int
	Recommendations map[models.Action]int
	ClusterSizes    map[int]int
	ForecastRevenue float64
	ForecastDays    int
	BestProduct     *models.ProductSentiment
	WorstProduct    *models.ProductSentiment
}

// ReportService summarises a finished pipeline run for the terminal.
type ReportService struct {
	logger *utils.Logger
}

// NewReportService creates a ReportService with the given logger.
func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate builds the summary from the clustered benchmark, the enriched
// pricing table, the product sentiment table and the forecast.
func (s *ReportService) Generate(
	clusters []*models.MerchantCluster,
	pricing []*models.PricingWithSentiment,
	sentiment []*models.ProductSentiment,
	forecast []*models.ForecastRow,
) *PipelineReport {
	report := &PipelineReport{
		Merchants:       len(clusters),
		PricingRows:     len(pricing),
		ScoredProducts:  len(sentiment),
		Recommendations: make(map[models.Action]int),
		ClusterSizes:    make(map[int]int),
	}

	for _, c := range clusters {
		report.ClusterSizes[c.Cluster]++
	}
	for _, r := range pricing {
		report.Recommendations[r.Recommendation]++
	}
	for _, p := range sentiment {
		if report.BestProduct == nil || p.AvgProductSentiment > report.BestProduct.AvgProductSentiment {
			report.BestProduct = p
		}
		if report.WorstProduct == nil || p.AvgProductSentiment < report.WorstProduct.AvgProductSentiment {
			report.WorstProduct = p
		}
	}
	if len(forecast) > 0 {
		report.ForecastRevenue = forecast[0].ForecastRevenue
		report.ForecastDays = len(forecast)
	}

	return report
}

// Print renders the report to the terminal.
func (s *ReportService) Print(r *PipelineReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 MARKET INTELLIGENCE SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Merchants benchmarked  : \033[1m%d\033[0m\n", r.Merchants)
	fmt.Printf("  Pricing rows evaluated : \033[1m%d\033[0m\n", r.PricingRows)
	fmt.Printf("  Products with reviews  : \033[1m%d\033[0m\n", r.ScoredProducts)
	fmt.Println()

	// Forecast
	fmt.Printf("\033[1;33m  Revenue Forecast\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.ForecastDays > 0 {
		fmt.Printf("  Next %d days : \033[1;32m$%.2f/day\033[0m (flat 7-day MA)\n", r.ForecastDays, r.ForecastRevenue)
	} else {
		fmt.Printf("  No forecast available\n")
	}
	fmt.Println()

	// Recommendation mix
	fmt.Printf("\033[1;33m  Pricing Recommendations\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, action := range []models.Action{models.ActionIncrease, models.ActionDecrease, models.ActionKeep} {
		count := r.Recommendations[action]
		bar := ""
		if r.PricingRows > 0 {
			bar = strings.Repeat("█", count*40/r.PricingRows)
		}
		fmt.Printf("  %-16s %s (%d)\n", action, bar, count)
	}
	fmt.Println()

	// Cluster sizes
	fmt.Printf("\033[1;33m  Merchant Segments\033[0m\n")
	fmt.Printf("  %s\n", thin)
	ids := make([]int, 0, len(r.ClusterSizes))
	for id := range r.ClusterSizes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fmt.Printf("  Cluster %d : %s (%d)\n", id, strings.Repeat("█", r.ClusterSizes[id]), r.ClusterSizes[id])
	}
	fmt.Println()

	// Sentiment extremes
	fmt.Printf("\033[1;33m  Product Sentiment\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.BestProduct == nil {
		fmt.Printf("  No scored reviews\n")
	} else {
		fmt.Printf("  Best reviewed  : %s (\033[1;32m%+.3f\033[0m)\n",
			r.BestProduct.ProductID, r.BestProduct.AvgProductSentiment)
		fmt.Printf("  Worst reviewed : %s (\033[1;31m%+.3f\033[0m)\n",
			r.WorstProduct.ProductID, r.WorstProduct.AvgProductSentiment)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}
