package services

import (
	"errors"
	"testing"

	"market-intel/models"
)

func txOn(dayN int, revenue float64) *models.Transaction {
	return &models.Transaction{
		Date: day(dayN), MerchantID: "M001", ProductID: "P0001",
		Price: revenue, Quantity: 1, Revenue: revenue,
	}
}

func TestForecastFlatness(t *testing.T) {
	svc := NewForecastService(newTestLogger(), 7, 30)

	// Ten observed days, revenue 10..100. The forecast base is the mean of
	// the last seven days: (40+...+100)/7 = 70.
	var txs []*models.Transaction
	for i := 1; i <= 10; i++ {
		txs = append(txs, txOn(i, float64(i*10)))
	}

	rows, err := svc.Forecast(txs)
	if err != nil {
		t.Fatalf("Forecast returned error: %v", err)
	}
	if len(rows) != 30 {
		t.Fatalf("expected 30 forecast rows, got %d", len(rows))
	}
	for i, r := range rows {
		if r.ForecastRevenue != 70 {
			t.Fatalf("row %d: forecast %.2f, want flat 70", i, r.ForecastRevenue)
		}
	}
}

func TestForecastDatesAreConsecutive(t *testing.T) {
	svc := NewForecastService(newTestLogger(), 7, 30)

	var txs []*models.Transaction
	for i := 1; i <= 8; i++ {
		txs = append(txs, txOn(i, 100))
	}

	rows, err := svc.Forecast(txs)
	if err != nil {
		t.Fatalf("Forecast returned error: %v", err)
	}
	for i, r := range rows {
		want := day(8).AddDate(0, 0, i+1)
		if !r.Date.Equal(want) {
			t.Errorf("row %d: date %v, want %v", i, r.Date, want)
		}
	}
}

func TestForecastSumsRevenuePerDay(t *testing.T) {
	svc := NewForecastService(newTestLogger(), 2, 5)

	// Two transactions on the same day must aggregate before the window mean.
	txs := []*models.Transaction{
		txOn(1, 10), txOn(1, 30), // day 1 total 40
		txOn(2, 60), // day 2 total 60
	}

	rows, err := svc.Forecast(txs)
	if err != nil {
		t.Fatalf("Forecast returned error: %v", err)
	}
	if rows[0].ForecastRevenue != 50 {
		t.Errorf("forecast base: got %.2f, want 50", rows[0].ForecastRevenue)
	}
}

func TestForecastShortSeries(t *testing.T) {
	svc := NewForecastService(newTestLogger(), 7, 30)

	var txs []*models.Transaction
	for i := 1; i <= 6; i++ {
		txs = append(txs, txOn(i, 100))
	}

	if _, err := svc.Forecast(txs); !errors.Is(err, ErrShortSeries) {
		t.Errorf("expected ErrShortSeries for 6 observed days, got %v", err)
	}
	if _, err := svc.Forecast(nil); !errors.Is(err, ErrShortSeries) {
		t.Errorf("expected ErrShortSeries for empty input, got %v", err)
	}
}
