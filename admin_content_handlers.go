package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (a *App) adminListContentHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.content.All())
}

func (a *App) adminUpsertContentHandler(c *gin.Context) {
	var payload struct {
		Key   string            `json:"key"`
		Texts map[string]string `json:"texts"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid content payload"})
		return
	}
	payload.Key = strings.TrimSpace(payload.Key)
	if payload.Key == "" {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Content key is required"})
		return
	}
	if len(payload.Texts) == 0 {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "At least one translation is required"})
		return
	}
	for lang := range payload.Texts {
		if !isContentLanguage(lang) {
			writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: fmt.Sprintf("Unknown language %q", lang)})
			return
		}
	}

	session, _ := getAdminSession(c)
	content := SiteContent{
		Key:       payload.Key,
		Texts:     payload.Texts,
		UpdatedBy: session.Email,
	}
	if err := a.content.Save(c.Request.Context(), a.db, content); err != nil {
		a.log.Error("failed to save site content", "key", content.Key, "error", err)
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}
