package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var saveIntents = []string{intentSave, intentPublish, intentArchive, intentUnpublish}

func (a *App) adminOpenEditorHandler(c *gin.Context) {
	trip, err := a.adminGetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.log.Error("failed to load trip for editing", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Trip not found"})
		return
	}

	session := a.editorSessions.open(*trip, a.trips, a.log, a.autosaveDelay)
	c.JSON(http.StatusCreated, session.State())
}

func (a *App) adminEditorStateHandler(c *gin.Context) {
	session, ok := a.editorSessions.get(c.Param("sessionID"))
	if !ok {
		writeAPIError(c, &apiError{Status: http.StatusNotFound, Code: "session_not_found", Message: "Editor session not found"})
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (a *App) adminEditorPatchHandler(c *gin.Context) {
	session, ok := a.editorSessions.get(c.Param("sessionID"))
	if !ok {
		writeAPIError(c, &apiError{Status: http.StatusNotFound, Code: "session_not_found", Message: "Editor session not found"})
		return
	}

	var patch TripPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid patch payload"})
		return
	}

	session.ApplyPatch(patch)
	c.JSON(http.StatusOK, session.State())
}

func (a *App) adminEditorAutosaveHandler(c *gin.Context) {
	session, ok := a.editorSessions.get(c.Param("sessionID"))
	if !ok {
		writeAPIError(c, &apiError{Status: http.StatusNotFound, Code: "session_not_found", Message: "Editor session not found"})
		return
	}

	var payload struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid autosave payload"})
		return
	}

	session.SetAutosaveEnabled(payload.Enabled)
	c.JSON(http.StatusOK, session.State())
}

func (a *App) adminEditorSaveHandler(c *gin.Context) {
	session, ok := a.editorSessions.get(c.Param("sessionID"))
	if !ok {
		writeAPIError(c, &apiError{Status: http.StatusNotFound, Code: "session_not_found", Message: "Editor session not found"})
		return
	}

	var payload struct {
		Intent string `json:"intent"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid save payload"})
		return
	}
	if payload.Intent == "" {
		payload.Intent = intentSave
	}
	if !containsString(saveIntents, payload.Intent) {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_intent", Message: "Unknown save intent"})
		return
	}

	if _, err := session.Save(c.Request.Context(), payload.Intent); err != nil {
		switch err {
		case errSaveInFlight:
			writeAPIError(c, &apiError{Status: http.StatusConflict, Code: "save_in_flight", Message: "A save is already in progress"})
		case errSessionClosed:
			writeAPIError(c, &apiError{Status: http.StatusGone, Code: "session_closed", Message: "Editor session is closed"})
		default:
			a.log.Error("manual save failed", "session_id", session.ID(), "error", err)
			writeAPIError(c, &apiError{Status: http.StatusBadGateway, Code: "save_failed", Message: err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, session.State())
}

func (a *App) adminCloseEditorHandler(c *gin.Context) {
	if !a.editorSessions.close(c.Param("sessionID")) {
		writeAPIError(c, &apiError{Status: http.StatusNotFound, Code: "session_not_found", Message: "Editor session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
