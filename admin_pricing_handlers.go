package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (a *App) adminCalculatePriceHandler(c *gin.Context) {
	var payload struct {
		Label          string  `json:"label"`
		DistanceKM     float64 `json:"distanceKm"`
		DriverHours    float64 `json:"driverHours"`
		PerKMRate      float64 `json:"perKmRate"`
		HourlyRate     float64 `json:"hourlyRate"`
		FixedCosts     float64 `json:"fixedCosts"`
		PassengerCount int     `json:"passengerCount"`
		Save           bool    `json:"save"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid price calculation payload"})
		return
	}
	if payload.DistanceKM < 0 || payload.DriverHours < 0 || payload.PerKMRate < 0 || payload.HourlyRate < 0 || payload.FixedCosts < 0 || payload.PassengerCount < 0 {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Price inputs must not be negative"})
		return
	}

	calc := calculatePrice(PriceCalculation{
		Label:          strings.TrimSpace(payload.Label),
		DistanceKM:     payload.DistanceKM,
		DriverHours:    payload.DriverHours,
		PerKMRate:      payload.PerKMRate,
		HourlyRate:     payload.HourlyRate,
		FixedCosts:     payload.FixedCosts,
		PassengerCount: payload.PassengerCount,
	})

	if payload.Save {
		session, _ := getAdminSession(c)
		calc.CreatedBy = session.Email
		if err := a.storeCreatePriceCalculation(c.Request.Context(), &calc); err != nil {
			a.log.Error("failed to save price calculation", "error", err)
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusCreated, calc)
		return
	}
	c.JSON(http.StatusOK, calc)
}

func (a *App) adminListPriceCalculationsHandler(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	calcs, err := a.storeListPriceCalculations(c.Request.Context(), limit)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if calcs == nil {
		calcs = []PriceCalculation{}
	}
	c.JSON(http.StatusOK, calcs)
}
