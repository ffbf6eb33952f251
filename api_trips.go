package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (a *App) publicTripListHandler(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	offsetStr := c.DefaultQuery("offset", "0")

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		offset = 0
	}

	filters := TripSearchFilters{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}
	if filters.Category != "" && !containsString(publicTripCategories, filters.Category) {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_category", Message: "Unknown trip category"})
		return
	}

	trips, total, err := a.tripsSearchPublished(c.Request.Context(), filters, limit, offset)
	if err != nil {
		a.log.Error("failed to search published trips", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if trips == nil {
		trips = []TripDraft{}
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"total": total,
	})
}

func (a *App) publicTripDetailHandler(c *gin.Context) {
	slug := c.Param("slug")
	trip, err := a.tripsGetPublishedBySlug(c.Request.Context(), slug)
	if err != nil {
		a.log.Error("failed to fetch published trip", "slug", slug, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	c.JSON(http.StatusOK, trip)
}
