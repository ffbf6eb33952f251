package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// publicContentHandler returns the full site text cache, keyed by language.
// The frontend merges this directly over its static sv and en dictionaries.
func (a *App) publicContentHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.content.Snapshot())
}
