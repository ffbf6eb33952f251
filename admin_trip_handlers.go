package main

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (a *App) adminListTripsHandler(c *gin.Context) {
	trips, err := a.adminListTrips(c.Request.Context())
	if err != nil {
		a.log.Error("failed to list trips", "error", err)
		writeAPIError(c, err)
		return
	}
	if trips == nil {
		trips = []TripDraft{}
	}
	c.JSON(http.StatusOK, trips)
}

func (a *App) adminGetTripHandler(c *gin.Context) {
	trip, err := a.adminGetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.log.Error("failed to get trip", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Trip not found"})
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (a *App) adminCreateTripHandler(c *gin.Context) {
	var payload struct {
		Title string `json:"title"`
		Type  string `json:"type"`
		Intro string `json:"intro"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid trip payload"})
		return
	}
	payload.Title = strings.TrimSpace(payload.Title)
	if payload.Title == "" {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Title is required"})
		return
	}

	taken, err := a.adminListTripSlugs(c.Request.Context())
	if err != nil {
		writeAPIError(c, err)
		return
	}

	trip := TripDraft{
		ID:     uuid.NewString(),
		Status: tripStatusDraft,
		Type:   normalizeTripType(payload.Type),
		Title:  payload.Title,
		Slug:   allocateSlug(payload.Title, taken),
		Intro:  payload.Intro,
	}
	if trip.Type == tripTypeMulti {
		trip.Itinerary = append([]ItineraryDay{}, defaultItineraryTemplate...)
	}

	if err := a.adminCreateTrip(c.Request.Context(), &trip); err != nil {
		a.log.Error("failed to create trip", "error", err)
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

func (a *App) adminSaveTripHandler(c *gin.Context) {
	id := c.Param("id")
	var trip TripDraft
	if err := c.ShouldBindJSON(&trip); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid trip payload"})
		return
	}
	if trip.ID == "" {
		trip.ID = id
	}
	if trip.ID != id {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "id_mismatch", Message: "Trip id does not match URL"})
		return
	}

	saved, err := a.trips.SaveTrip(c.Request.Context(), trip)
	if err != nil {
		a.log.Error("failed to save trip", "id", id, "error", err)
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (a *App) adminDeleteTripHandler(c *gin.Context) {
	id := c.Param("id")
	if err := a.trips.DeleteTrip(c.Request.Context(), id); err != nil {
		a.log.Error("failed to delete trip", "id", id, "error", err)
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *App) adminTripMediaUploadHandler(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
		return
	}

	ext := filepath.Ext(file.Filename)
	newFilename := uuid.New().String() + ext
	storagePath := filepath.Join(a.cfg.DataRoot, "trips", newFilename)

	if err := c.SaveUploadedFile(file, storagePath); err != nil {
		a.log.Error("failed to save trip media", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	m := &TripMedia{
		Filename:    newFilename,
		StoragePath: storagePath,
		MimeType:    file.Header.Get("Content-Type"),
		SizeBytes:   file.Size,
	}

	if err := a.storeSaveTripMedia(c.Request.Context(), m); err != nil {
		a.log.Error("failed to record trip media", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record media"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": fmt.Sprintf("/api/v1/trips/media/%s", newFilename),
	})
}

func (a *App) tripMediaServeHandler(c *gin.Context) {
	filename := c.Param("filename")
	m, err := a.storeGetTripMedia(c.Request.Context(), filename)
	if err != nil {
		c.String(http.StatusNotFound, "Media not found")
		return
	}

	c.File(m.StoragePath)
}
