package main

import (
	"fmt"
	"os"

	"market-intel/config"
	"market-intel/generator"
	"market-intel/services"
	"market-intel/storage"
	"market-intel/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Market Intelligence Pipeline starting ===")
	logger.Info("Config — seed: %d | merchants: %d | products: %d | history: %d days | clusters: %d",
		cfg.Seed, cfg.NumMerchants, cfg.NumProducts, cfg.HistoryDays, cfg.ClusterCount)

	// Stage 0 — synthetic fixtures. Every downstream stage reads its inputs
	// back from disk: the CSV files are the only inter-stage contract.
	gen := generator.New(cfg, logger)
	merchants := gen.Merchants()
	products := gen.Products()
	transactions := gen.Transactions(merchants, products)
	competitorPrices := gen.CompetitorPrices(products, merchants)
	reviews := gen.Reviews(products)

	saveOrDie(logger, storage.SaveMerchants(cfg.RawPath("merchants.csv"), merchants))
	saveOrDie(logger, storage.SaveProducts(cfg.RawPath("products.csv"), products))
	saveOrDie(logger, storage.SaveTransactions(cfg.RawPath("transactions.csv"), transactions))
	saveOrDie(logger, storage.SaveCompetitorPrices(cfg.RawPath("competitor_prices.csv"), competitorPrices))
	saveOrDie(logger, storage.SaveReviews(cfg.RawPath("reviews.csv"), reviews))
	logger.Info("Raw tables written to %s", cfg.RawDataDir)

	// Stage 1 — benchmarking.
	txs, err := storage.LoadTransactions(cfg.RawPath("transactions.csv"))
	if err != nil {
		fatal(logger, "benchmark", err)
	}
	prices, err := storage.LoadCompetitorPrices(cfg.RawPath("competitor_prices.csv"))
	if err != nil {
		fatal(logger, "benchmark", err)
	}
	merchantAttrs, err := storage.LoadMerchants(cfg.RawPath("merchants.csv"))
	if err != nil {
		fatal(logger, "benchmark", err)
	}
	benchmark := services.NewBenchmarkService(logger).Build(txs, prices, merchantAttrs)
	saveOrDie(logger, storage.SaveBenchmark(cfg.ProcessedPath("benchmarking_output.csv"), benchmark))

	// Stage 2 — forecasting.
	forecast, err := services.NewForecastService(logger, cfg.ForecastWindow, cfg.ForecastHorizon).Forecast(txs)
	if err != nil {
		fatal(logger, "forecast", err)
	}
	saveOrDie(logger, storage.SaveForecast(cfg.ProcessedPath("forecasting_output.csv"), forecast))

	// Stage 3 — clustering, over the benchmark file written above.
	benchRows, err := storage.LoadBenchmark(cfg.ProcessedPath("benchmarking_output.csv"))
	if err != nil {
		fatal(logger, "cluster", err)
	}
	clusters, err := services.NewClusterService(logger, cfg.ClusterCount, cfg.Seed).Cluster(benchRows)
	if err != nil {
		fatal(logger, "cluster", err)
	}
	saveOrDie(logger, storage.SaveMerchantClusters(cfg.ProcessedPath("merchant_clusters.csv"), clusters))

	// Stage 4 — pricing recommendations.
	pricing := services.NewPricingService(logger).Recommend(prices)
	saveOrDie(logger, storage.SavePricing(cfg.ProcessedPath("pricing_recommendations.csv"), pricing))

	// Stage 5 — sentiment integration.
	reviewRows, err := storage.LoadReviews(cfg.RawPath("reviews.csv"))
	if err != nil {
		fatal(logger, "sentiment", err)
	}
	pricingRows, err := storage.LoadPricing(cfg.ProcessedPath("pricing_recommendations.csv"))
	if err != nil {
		fatal(logger, "sentiment", err)
	}
	sentimentSvc := services.NewSentimentService(services.VaderScorer{}, logger)
	productSentiment := sentimentSvc.ProductSentiment(reviewRows)
	enriched := sentimentSvc.Merge(pricingRows, productSentiment)

	saveOrDie(logger, storage.SaveProductSentiment(cfg.ProcessedPath("product_sentiment.csv"), productSentiment))
	saveOrDie(logger, storage.SaveMerchantSentiment(cfg.ProcessedPath("merchant_sentiment.csv"), productSentiment))
	saveOrDie(logger, storage.SavePricingWithSentiment(
		cfg.ProcessedPath("pricing_recommendations_with_sentiment.csv"), enriched))

	// Optional Postgres sink for the final table.
	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pgWriter.Close()

		if err := pgWriter.Write(enriched); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Recommendations stored in PostgreSQL (table: pricing_recommendations)")
		}
	}

	reportSvc := services.NewReportService(logger)
	reportSvc.Print(reportSvc.Generate(clusters, enriched, productSentiment, forecast))

	fmt.Printf("  Done. Raw CSVs → %s | Outputs → %s\n\n", cfg.RawDataDir, cfg.ProcessedDataDir)
}

func saveOrDie(logger *utils.Logger, err error) {
	if err != nil {
		logger.Error("Output write failed: %v", err)
		os.Exit(1)
	}
}

func fatal(logger *utils.Logger, stage string, err error) {
	logger.Error("Stage %s failed: %v", stage, err)
	os.Exit(1)
}
