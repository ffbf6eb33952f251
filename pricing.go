package main

import (
	"context"
	"math"
	"time"
)

// PriceCalculation is one saved back-office charter price calculation.
// Amounts are in SEK.
type PriceCalculation struct {
	ID             int       `json:"id"`
	Label          string    `json:"label"`
	DistanceKM     float64   `json:"distanceKm"`
	DriverHours    float64   `json:"driverHours"`
	PerKMRate      float64   `json:"perKmRate"`
	HourlyRate     float64   `json:"hourlyRate"`
	FixedCosts     float64   `json:"fixedCosts"`
	PassengerCount int       `json:"passengerCount"`
	Total          float64   `json:"total"`
	PerSeat        float64   `json:"perSeat"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
}

// calculatePrice fills in Total and PerSeat from the input rates. Results are
// rounded to whole öre.
func calculatePrice(in PriceCalculation) PriceCalculation {
	total := in.DistanceKM*in.PerKMRate + in.DriverHours*in.HourlyRate + in.FixedCosts
	in.Total = roundSEK(total)
	if in.PassengerCount > 0 {
		in.PerSeat = roundSEK(total / float64(in.PassengerCount))
	} else {
		in.PerSeat = 0
	}
	return in
}

func roundSEK(value float64) float64 {
	return math.Round(value*100) / 100
}

func (a *App) storeCreatePriceCalculation(ctx context.Context, calc *PriceCalculation) error {
	return a.db.QueryRowContext(ctx, `
		INSERT INTO price_calculations
			(label, distance_km, driver_hours, per_km_rate, hourly_rate, fixed_costs, passenger_count, total, per_seat, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, calc.Label, calc.DistanceKM, calc.DriverHours, calc.PerKMRate, calc.HourlyRate,
		calc.FixedCosts, calc.PassengerCount, calc.Total, calc.PerSeat, calc.CreatedBy,
	).Scan(&calc.ID, &calc.CreatedAt)
}

func (a *App) storeListPriceCalculations(ctx context.Context, limit int) ([]PriceCalculation, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, label, distance_km, driver_hours, per_km_rate, hourly_rate, fixed_costs,
		       passenger_count, total, per_seat, created_by, created_at
		FROM price_calculations
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calcs []PriceCalculation
	for rows.Next() {
		var c PriceCalculation
		if err := rows.Scan(
			&c.ID, &c.Label, &c.DistanceKM, &c.DriverHours, &c.PerKMRate, &c.HourlyRate,
			&c.FixedCosts, &c.PassengerCount, &c.Total, &c.PerSeat, &c.CreatedBy, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		calcs = append(calcs, c)
	}
	return calcs, rows.Err()
}
