package main

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	offerStatusNew      = "new"
	offerStatusSent     = "sent"
	offerStatusAccepted = "accepted"
	offerStatusRejected = "rejected"
)

var offerStatuses = []string{offerStatusNew, offerStatusSent, offerStatusAccepted, offerStatusRejected}

var offerStatusTransitions = map[string][]string{
	offerStatusNew:      {offerStatusSent, offerStatusRejected},
	offerStatusSent:     {offerStatusAccepted, offerStatusRejected},
	offerStatusAccepted: {},
	offerStatusRejected: {},
}

// Offer is a back-office charter offer sent to a customer.
type Offer struct {
	ID             int        `json:"id"`
	OfferNumber    string     `json:"offerNumber"`
	Status         string     `json:"status"`
	CustomerName   string     `json:"customerName"`
	CustomerEmail  string     `json:"customerEmail"`
	CustomerPhone  string     `json:"customerPhone"`
	TripTitle      string     `json:"tripTitle"`
	DepartureDate  string     `json:"departureDate"`
	ReturnDate     *string    `json:"returnDate,omitempty"`
	PassengerCount int        `json:"passengerCount"`
	Amount         float64    `json:"amount"`
	Notes          string     `json:"notes"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func generateOfferNumber() string {
	return "OF-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func isValidOfferTransition(from, to string) bool {
	return containsString(offerStatusTransitions[from], to)
}

func (a *App) storeCreateOffer(ctx context.Context, o *Offer) error {
	return a.db.QueryRowContext(ctx, `
		INSERT INTO offers
			(offer_number, status, customer_name, customer_email, customer_phone,
			 trip_title, departure_date, return_date, passenger_count, amount, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, o.OfferNumber, o.Status, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.TripTitle, o.DepartureDate, o.ReturnDate, o.PassengerCount, o.Amount, o.Notes, o.CreatedBy,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (a *App) storeGetOffer(ctx context.Context, id int) (*Offer, error) {
	var o Offer
	err := a.db.QueryRowContext(ctx, `
		SELECT id, offer_number, status, customer_name, customer_email, customer_phone,
		       trip_title, departure_date, return_date, passenger_count, amount, notes,
		       sent_at, created_by, created_at, updated_at
		FROM offers
		WHERE id = $1
	`, id).Scan(
		&o.ID, &o.OfferNumber, &o.Status, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.TripTitle, &o.DepartureDate, &o.ReturnDate, &o.PassengerCount, &o.Amount, &o.Notes,
		&o.SentAt, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (a *App) storeListOffers(ctx context.Context, status string) ([]Offer, error) {
	query := `
		SELECT id, offer_number, status, customer_name, customer_email, customer_phone,
		       trip_title, departure_date, return_date, passenger_count, amount, notes,
		       sent_at, created_by, created_at, updated_at
		FROM offers
	`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(
			&o.ID, &o.OfferNumber, &o.Status, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
			&o.TripTitle, &o.DepartureDate, &o.ReturnDate, &o.PassengerCount, &o.Amount, &o.Notes,
			&o.SentAt, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (a *App) storeUpdateOffer(ctx context.Context, o *Offer) error {
	_, err := a.db.ExecContext(ctx, `
		UPDATE offers
		SET customer_name = $2, customer_email = $3, customer_phone = $4,
		    trip_title = $5, departure_date = $6, return_date = $7,
		    passenger_count = $8, amount = $9, notes = $10, updated_at = NOW()
		WHERE id = $1
	`, o.ID, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.TripTitle, o.DepartureDate, o.ReturnDate, o.PassengerCount, o.Amount, o.Notes)
	return err
}

func (a *App) storeUpdateOfferStatus(ctx context.Context, id int, status string) error {
	_, err := a.db.ExecContext(ctx, `
		UPDATE offers SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	return err
}

func (a *App) storeMarkOfferSent(ctx context.Context, id int) error {
	_, err := a.db.ExecContext(ctx, `
		UPDATE offers SET status = 'sent', sent_at = NOW(), updated_at = NOW() WHERE id = $1
	`, id)
	return err
}
