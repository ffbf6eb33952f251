package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (a *App) adminListBookingsHandler(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !containsString(bookingStatuses, status) {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_status", Message: "Unknown booking status"})
		return
	}
	bookings, err := a.storeListBookings(c.Request.Context(), status)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if bookings == nil {
		bookings = []Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

func (a *App) adminGetBookingHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid booking id"})
		return
	}
	booking, err := a.storeGetBooking(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (a *App) adminCreateBookingHandler(c *gin.Context) {
	var payload struct {
		CustomerName   string  `json:"customerName"`
		CustomerEmail  string  `json:"customerEmail"`
		CustomerPhone  string  `json:"customerPhone"`
		TripTitle      string  `json:"tripTitle"`
		DepartureDate  string  `json:"departureDate"`
		ReturnDate     *string `json:"returnDate"`
		PassengerCount int     `json:"passengerCount"`
		Amount         float64 `json:"amount"`
		OperatorID     *int    `json:"operatorId"`
		VehicleID      *int    `json:"vehicleId"`
		Notes          string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid booking payload"})
		return
	}
	if strings.TrimSpace(payload.CustomerName) == "" || strings.TrimSpace(payload.TripTitle) == "" || payload.PassengerCount <= 0 {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Customer name, trip title and a positive passenger count are required"})
		return
	}

	session, _ := getAdminSession(c)
	booking := Booking{
		BookingNumber:  generateBookingNumber(),
		Status:         bookingStatusConfirmed,
		CustomerName:   strings.TrimSpace(payload.CustomerName),
		CustomerEmail:  strings.TrimSpace(payload.CustomerEmail),
		CustomerPhone:  strings.TrimSpace(payload.CustomerPhone),
		TripTitle:      strings.TrimSpace(payload.TripTitle),
		DepartureDate:  payload.DepartureDate,
		ReturnDate:     payload.ReturnDate,
		PassengerCount: payload.PassengerCount,
		Amount:         payload.Amount,
		OperatorID:     payload.OperatorID,
		VehicleID:      payload.VehicleID,
		Notes:          payload.Notes,
		CreatedBy:      session.Email,
	}

	if err := a.storeCreateBooking(c.Request.Context(), &booking); err != nil {
		a.log.Error("failed to create booking", "error", err)
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// adminAssignBookingHandler sets which partner operator and vehicle run a
// booking.
func (a *App) adminAssignBookingHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid booking id"})
		return
	}

	var payload struct {
		OperatorID *int `json:"operatorId"`
		VehicleID  *int `json:"vehicleId"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid assignment payload"})
		return
	}

	booking, err := a.storeGetBooking(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if booking.Status != bookingStatusConfirmed {
		writeAPIError(c, &apiError{Status: http.StatusConflict, Code: "booking_locked", Message: "Only confirmed bookings can be reassigned"})
		return
	}

	booking.OperatorID = payload.OperatorID
	booking.VehicleID = payload.VehicleID
	if err := a.storeUpdateBooking(c.Request.Context(), booking); err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (a *App) adminBookingStatusHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid booking id"})
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Status == "" {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Status is required"})
		return
	}

	booking, err := a.storeGetBooking(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if !isValidBookingTransition(booking.Status, payload.Status) {
		writeAPIError(c, &apiError{Status: http.StatusConflict, Code: "invalid_transition", Message: "Booking cannot move from " + booking.Status + " to " + payload.Status})
		return
	}

	if err := a.storeUpdateBookingStatus(c.Request.Context(), id, payload.Status); err != nil {
		writeAPIError(c, err)
		return
	}
	booking.Status = payload.Status
	c.JSON(http.StatusOK, booking)
}
