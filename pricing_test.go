package main

import "testing"

func TestCalculatePrice(t *testing.T) {
	calc := calculatePrice(PriceCalculation{
		DistanceKM:     420,
		DriverHours:    9.5,
		PerKMRate:      14.50,
		HourlyRate:     495,
		FixedCosts:     1200,
		PassengerCount: 48,
	})

	// 420*14.50 + 9.5*495 + 1200 = 6090 + 4702.5 + 1200
	if calc.Total != 11992.5 {
		t.Fatalf("total = %v, want 11992.5", calc.Total)
	}
	if calc.PerSeat != 249.84 {
		t.Fatalf("perSeat = %v, want 249.84", calc.PerSeat)
	}
}

func TestCalculatePrice_ZeroPassengers(t *testing.T) {
	calc := calculatePrice(PriceCalculation{DistanceKM: 100, PerKMRate: 10})
	if calc.Total != 1000 {
		t.Fatalf("total = %v", calc.Total)
	}
	if calc.PerSeat != 0 {
		t.Fatalf("perSeat = %v, want 0 when passenger count is unknown", calc.PerSeat)
	}
}

func TestCalculatePrice_RoundsToOre(t *testing.T) {
	calc := calculatePrice(PriceCalculation{DistanceKM: 1, PerKMRate: 0.333, PassengerCount: 3})
	if calc.Total != 0.33 {
		t.Fatalf("total = %v, want 0.33", calc.Total)
	}
	if calc.PerSeat != 0.11 {
		t.Fatalf("perSeat = %v, want 0.11", calc.PerSeat)
	}
}
