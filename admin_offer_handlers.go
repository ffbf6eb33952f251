package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type offerPayload struct {
	CustomerName   string  `json:"customerName"`
	CustomerEmail  string  `json:"customerEmail"`
	CustomerPhone  string  `json:"customerPhone"`
	TripTitle      string  `json:"tripTitle"`
	DepartureDate  string  `json:"departureDate"`
	ReturnDate     *string `json:"returnDate"`
	PassengerCount int     `json:"passengerCount"`
	Amount         float64 `json:"amount"`
	Notes          string  `json:"notes"`
}

func (p offerPayload) validate() *apiError {
	if strings.TrimSpace(p.CustomerName) == "" || strings.TrimSpace(p.TripTitle) == "" {
		return &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Customer name and trip title are required"}
	}
	if p.PassengerCount <= 0 {
		return &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Passenger count must be positive"}
	}
	if p.Amount < 0 {
		return &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Amount must not be negative"}
	}
	return nil
}

func (a *App) adminListOffersHandler(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !containsString(offerStatuses, status) {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_status", Message: "Unknown offer status"})
		return
	}
	offers, err := a.storeListOffers(c.Request.Context(), status)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if offers == nil {
		offers = []Offer{}
	}
	c.JSON(http.StatusOK, offers)
}

func (a *App) adminGetOfferHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid offer id"})
		return
	}
	offer, err := a.storeGetOffer(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (a *App) adminCreateOfferHandler(c *gin.Context) {
	var payload offerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid offer payload"})
		return
	}
	if apiErr := payload.validate(); apiErr != nil {
		writeAPIError(c, apiErr)
		return
	}

	session, _ := getAdminSession(c)
	offer := Offer{
		OfferNumber:    generateOfferNumber(),
		Status:         offerStatusNew,
		CustomerName:   strings.TrimSpace(payload.CustomerName),
		CustomerEmail:  strings.TrimSpace(payload.CustomerEmail),
		CustomerPhone:  strings.TrimSpace(payload.CustomerPhone),
		TripTitle:      strings.TrimSpace(payload.TripTitle),
		DepartureDate:  payload.DepartureDate,
		ReturnDate:     payload.ReturnDate,
		PassengerCount: payload.PassengerCount,
		Amount:         payload.Amount,
		Notes:          payload.Notes,
		CreatedBy:      session.Email,
	}

	if err := a.storeCreateOffer(c.Request.Context(), &offer); err != nil {
		a.log.Error("failed to create offer", "error", err)
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

func (a *App) adminUpdateOfferHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid offer id"})
		return
	}

	var payload offerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid offer payload"})
		return
	}
	if apiErr := payload.validate(); apiErr != nil {
		writeAPIError(c, apiErr)
		return
	}

	offer, err := a.storeGetOffer(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if offer.Status != offerStatusNew {
		writeAPIError(c, &apiError{Status: http.StatusConflict, Code: "offer_locked", Message: "Only new offers can be edited"})
		return
	}

	offer.CustomerName = strings.TrimSpace(payload.CustomerName)
	offer.CustomerEmail = strings.TrimSpace(payload.CustomerEmail)
	offer.CustomerPhone = strings.TrimSpace(payload.CustomerPhone)
	offer.TripTitle = strings.TrimSpace(payload.TripTitle)
	offer.DepartureDate = payload.DepartureDate
	offer.ReturnDate = payload.ReturnDate
	offer.PassengerCount = payload.PassengerCount
	offer.Amount = payload.Amount
	offer.Notes = payload.Notes

	if err := a.storeUpdateOffer(c.Request.Context(), offer); err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (a *App) adminOfferStatusHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid offer id"})
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Status == "" {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Status is required"})
		return
	}

	offer, err := a.storeGetOffer(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if !isValidOfferTransition(offer.Status, payload.Status) {
		writeAPIError(c, &apiError{Status: http.StatusConflict, Code: "invalid_transition", Message: "Offer cannot move from " + offer.Status + " to " + payload.Status})
		return
	}

	if err := a.storeUpdateOfferStatus(c.Request.Context(), id, payload.Status); err != nil {
		writeAPIError(c, err)
		return
	}
	offer.Status = payload.Status
	c.JSON(http.StatusOK, offer)
}

// adminSendOfferHandler emails the quote PDF to the customer and moves the
// offer to sent.
func (a *App) adminSendOfferHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid offer id"})
		return
	}

	offer, err := a.storeGetOffer(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if !isValidOfferTransition(offer.Status, offerStatusSent) {
		writeAPIError(c, &apiError{Status: http.StatusConflict, Code: "invalid_transition", Message: "Offer has already been sent"})
		return
	}

	if err := a.sendOfferEmail(c.Request.Context(), *offer); err != nil {
		a.log.Error("failed to send offer", "id", id, "error", err)
		writeAPIError(c, err)
		return
	}

	if err := a.storeMarkOfferSent(c.Request.Context(), id); err != nil {
		writeAPIError(c, err)
		return
	}
	offer.Status = offerStatusSent
	c.JSON(http.StatusOK, offer)
}

func (a *App) adminOfferPDFHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid offer id"})
		return
	}

	offer, err := a.storeGetOffer(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, err)
		return
	}

	pdf, err := buildOfferPDF(*offer)
	if err != nil {
		a.log.Error("failed to build offer pdf", "id", id, "error", err)
		writeAPIError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=offert-"+offer.OfferNumber+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// adminBookOfferHandler turns an accepted offer into a confirmed booking.
func (a *App) adminBookOfferHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid offer id"})
		return
	}

	offer, err := a.storeGetOffer(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if offer.Status != offerStatusAccepted {
		writeAPIError(c, &apiError{Status: http.StatusConflict, Code: "offer_not_accepted", Message: "Only accepted offers can be booked"})
		return
	}

	session, _ := getAdminSession(c)
	booking := bookingFromOffer(*offer, session.Email)
	if err := a.storeCreateBooking(c.Request.Context(), &booking); err != nil {
		a.log.Error("failed to create booking from offer", "offer_id", id, "error", err)
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}
