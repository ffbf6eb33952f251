package main

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	bookingStatusConfirmed = "confirmed"
	bookingStatusCompleted = "completed"
	bookingStatusCancelled = "cancelled"
)

var bookingStatuses = []string{bookingStatusConfirmed, bookingStatusCompleted, bookingStatusCancelled}

var bookingStatusTransitions = map[string][]string{
	bookingStatusConfirmed: {bookingStatusCompleted, bookingStatusCancelled},
	bookingStatusCompleted: {},
	bookingStatusCancelled: {},
}

// Booking is a confirmed charter or trip booking, created either from an
// accepted offer or directly by the back office.
type Booking struct {
	ID             int       `json:"id"`
	BookingNumber  string    `json:"bookingNumber"`
	OfferID        *int      `json:"offerId,omitempty"`
	Status         string    `json:"status"`
	CustomerName   string    `json:"customerName"`
	CustomerEmail  string    `json:"customerEmail"`
	CustomerPhone  string    `json:"customerPhone"`
	TripTitle      string    `json:"tripTitle"`
	DepartureDate  string    `json:"departureDate"`
	ReturnDate     *string   `json:"returnDate,omitempty"`
	PassengerCount int       `json:"passengerCount"`
	Amount         float64   `json:"amount"`
	OperatorID     *int      `json:"operatorId,omitempty"`
	VehicleID      *int      `json:"vehicleId,omitempty"`
	Notes          string    `json:"notes"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func generateBookingNumber() string {
	return "BK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func isValidBookingTransition(from, to string) bool {
	return containsString(bookingStatusTransitions[from], to)
}

// bookingFromOffer carries the accepted offer's details over into a new
// confirmed booking.
func bookingFromOffer(o Offer, createdBy string) Booking {
	return Booking{
		BookingNumber:  generateBookingNumber(),
		OfferID:        &o.ID,
		Status:         bookingStatusConfirmed,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		CustomerPhone:  o.CustomerPhone,
		TripTitle:      o.TripTitle,
		DepartureDate:  o.DepartureDate,
		ReturnDate:     o.ReturnDate,
		PassengerCount: o.PassengerCount,
		Amount:         o.Amount,
		Notes:          o.Notes,
		CreatedBy:      createdBy,
	}
}

func (a *App) storeCreateBooking(ctx context.Context, b *Booking) error {
	return a.db.QueryRowContext(ctx, `
		INSERT INTO bookings
			(booking_number, offer_id, status, customer_name, customer_email, customer_phone,
			 trip_title, departure_date, return_date, passenger_count, amount,
			 operator_id, vehicle_id, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`, b.BookingNumber, b.OfferID, b.Status, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.TripTitle, b.DepartureDate, b.ReturnDate, b.PassengerCount, b.Amount,
		b.OperatorID, b.VehicleID, b.Notes, b.CreatedBy,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (a *App) storeGetBooking(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := a.db.QueryRowContext(ctx, `
		SELECT id, booking_number, offer_id, status, customer_name, customer_email, customer_phone,
		       trip_title, departure_date, return_date, passenger_count, amount,
		       operator_id, vehicle_id, notes, created_by, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`, id).Scan(
		&b.ID, &b.BookingNumber, &b.OfferID, &b.Status, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.TripTitle, &b.DepartureDate, &b.ReturnDate, &b.PassengerCount, &b.Amount,
		&b.OperatorID, &b.VehicleID, &b.Notes, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (a *App) storeListBookings(ctx context.Context, status string) ([]Booking, error) {
	query := `
		SELECT id, booking_number, offer_id, status, customer_name, customer_email, customer_phone,
		       trip_title, departure_date, return_date, passenger_count, amount,
		       operator_id, vehicle_id, notes, created_by, created_at, updated_at
		FROM bookings
	`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY departure_date ASC, created_at DESC`

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.BookingNumber, &b.OfferID, &b.Status, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
			&b.TripTitle, &b.DepartureDate, &b.ReturnDate, &b.PassengerCount, &b.Amount,
			&b.OperatorID, &b.VehicleID, &b.Notes, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (a *App) storeUpdateBooking(ctx context.Context, b *Booking) error {
	_, err := a.db.ExecContext(ctx, `
		UPDATE bookings
		SET customer_name = $2, customer_email = $3, customer_phone = $4,
		    trip_title = $5, departure_date = $6, return_date = $7,
		    passenger_count = $8, amount = $9, operator_id = $10, vehicle_id = $11,
		    notes = $12, updated_at = NOW()
		WHERE id = $1
	`, b.ID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.TripTitle, b.DepartureDate, b.ReturnDate, b.PassengerCount, b.Amount,
		b.OperatorID, b.VehicleID, b.Notes)
	return err
}

func (a *App) storeUpdateBookingStatus(ctx context.Context, id int, status string) error {
	_, err := a.db.ExecContext(ctx, `
		UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	return err
}
