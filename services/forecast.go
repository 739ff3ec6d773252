package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"market-intel/models"
	"market-intel/utils"
)

// ErrShortSeries marks a revenue series with fewer observed days than the
// moving-average window, which leaves the forecast base undefined.
var ErrShortSeries = errors.New("revenue series shorter than the moving-average window")

// ForecastService produces a flat moving-average revenue forecast.
type ForecastService struct {
	logger  *utils.Logger
	window  int
	horizon int
}

// NewForecastService creates a ForecastService with the given trailing window
// and forecast horizon in days.
func NewForecastService(logger *utils.Logger, window, horizon int) *ForecastService {
	return &ForecastService{logger: logger, window: window, horizon: horizon}
}

// Forecast aggregates transactions to a daily revenue series, takes the last
// trailing-window mean and replicates it across the next horizon days,
// starting the day after the last observed date. Sparse dates are accepted
// as-is; there is no gap-filling. A series shorter than the window fails with
// ErrShortSeries rather than propagating an undefined forecast.
func (s *ForecastService) Forecast(txs []*models.Transaction) ([]*models.ForecastRow, error) {
	daily := make(map[time.Time]float64)
	for _, tx := range txs {
		daily[tx.Date] += tx.Revenue
	}

	dates := make([]time.Time, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	if len(dates) < s.window {
		return nil, fmt.Errorf("forecast: %d observed days, window %d: %w",
			len(dates), s.window, ErrShortSeries)
	}

	// Only the last window of the series matters for a flat forecast.
	tail := make([]float64, 0, s.window)
	for _, d := range dates[len(dates)-s.window:] {
		tail = append(tail, daily[d])
	}
	base := stat.Mean(tail, nil)
	lastDate := dates[len(dates)-1]

	rows := make([]*models.ForecastRow, 0, s.horizon)
	for i := 1; i <= s.horizon; i++ {
		rows = append(rows, &models.ForecastRow{
			Date:            lastDate.AddDate(0, 0, i),
			ForecastRevenue: base,
		})
	}

	s.logger.Info("[forecast] %d observed days — forecasting %.2f/day for the next %d days",
		len(dates), base, s.horizon)
	return rows, nil
}
