package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (a *App) adminListBusOperatorsHandler(c *gin.Context) {
	operators, err := a.storeListBusOperators(c.Request.Context())
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if operators == nil {
		operators = []BusOperator{}
	}
	c.JSON(http.StatusOK, operators)
}

func (a *App) adminCreateBusOperatorHandler(c *gin.Context) {
	var payload struct {
		Name        string `json:"name"`
		ContactName string `json:"contactName"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid operator payload"})
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Operator name is required"})
		return
	}

	op := BusOperator{
		Name:        payload.Name,
		ContactName: strings.TrimSpace(payload.ContactName),
		Email:       strings.TrimSpace(payload.Email),
		Phone:       strings.TrimSpace(payload.Phone),
		IsActive:    true,
	}
	if err := a.storeCreateBusOperator(c.Request.Context(), &op); err != nil {
		a.log.Error("failed to create bus operator", "error", err)
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, op)
}

func (a *App) adminUpdateBusOperatorHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid operator id"})
		return
	}

	var payload struct {
		Name        string `json:"name"`
		ContactName string `json:"contactName"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid operator payload"})
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Operator name is required"})
		return
	}

	op := BusOperator{
		ID:          id,
		Name:        payload.Name,
		ContactName: strings.TrimSpace(payload.ContactName),
		Email:       strings.TrimSpace(payload.Email),
		Phone:       strings.TrimSpace(payload.Phone),
	}
	if err := a.storeUpdateBusOperator(c.Request.Context(), &op); err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *App) adminToggleBusOperatorHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid operator id"})
		return
	}
	isActive, err := a.storeToggleBusOperator(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "isActive": isActive})
}

func (a *App) adminListVehiclesHandler(c *gin.Context) {
	operatorID := 0
	if raw := c.Query("operatorId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid operator id"})
			return
		}
		operatorID = id
	}

	vehicles, err := a.storeListVehicles(c.Request.Context(), operatorID)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if vehicles == nil {
		vehicles = []Vehicle{}
	}
	c.JSON(http.StatusOK, vehicles)
}

func (a *App) adminCreateVehicleHandler(c *gin.Context) {
	var payload struct {
		OperatorID   int    `json:"operatorId"`
		Registration string `json:"registration"`
		Make         string `json:"make"`
		Seats        int    `json:"seats"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid vehicle payload"})
		return
	}
	payload.Registration = strings.ToUpper(strings.TrimSpace(payload.Registration))
	if payload.OperatorID <= 0 || payload.Registration == "" || payload.Seats <= 0 {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Operator, registration and a positive seat count are required"})
		return
	}

	vehicle := Vehicle{
		OperatorID:   payload.OperatorID,
		Registration: payload.Registration,
		Make:         strings.TrimSpace(payload.Make),
		Seats:        payload.Seats,
		IsActive:     true,
	}
	if err := a.storeCreateVehicle(c.Request.Context(), &vehicle); err != nil {
		a.log.Error("failed to create vehicle", "error", err)
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (a *App) adminUpdateVehicleHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid vehicle id"})
		return
	}

	var payload struct {
		OperatorID   int    `json:"operatorId"`
		Registration string `json:"registration"`
		Make         string `json:"make"`
		Seats        int    `json:"seats"`
		IsActive     *bool  `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid vehicle payload"})
		return
	}
	payload.Registration = strings.ToUpper(strings.TrimSpace(payload.Registration))
	if payload.OperatorID <= 0 || payload.Registration == "" || payload.Seats <= 0 {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Operator, registration and a positive seat count are required"})
		return
	}

	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}
	vehicle := Vehicle{
		ID:           id,
		OperatorID:   payload.OperatorID,
		Registration: payload.Registration,
		Make:         strings.TrimSpace(payload.Make),
		Seats:        payload.Seats,
		IsActive:     isActive,
	}
	if err := a.storeUpdateVehicle(c.Request.Context(), &vehicle); err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
