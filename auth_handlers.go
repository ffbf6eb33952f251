package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (a *App) adminLoginHandler(c *gin.Context) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid login payload"})
		return
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	admin, err := a.adminAuthenticate(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		writeAPIError(c, err)
		return
	}

	if err := a.startAdminSession(c, AdminSession{Email: admin.Email, Name: admin.Name, Role: admin.Role}); err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": admin.Email, "name": admin.Name, "role": admin.Role})
}

func (a *App) adminLogoutHandler(c *gin.Context) {
	a.clearAdminSession(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *App) adminSessionHandler(c *gin.Context) {
	token, err := c.Cookie(adminCookieName)
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "Admin session required"})
		return
	}
	session, err := a.verifyAdminSessionToken(token)
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "Admin session required"})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (a *App) adminListAdminsHandler(c *gin.Context) {
	admins, err := a.storeListAdmins(c.Request.Context())
	if err != nil {
		writeAPIError(c, err)
		return
	}
	if admins == nil {
		admins = []AdminUser{}
	}
	c.JSON(http.StatusOK, admins)
}

func (a *App) adminCreateAdminHandler(c *gin.Context) {
	var payload struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Role     string `json:"role"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Invalid admin payload"})
		return
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || len(payload.Password) < 8 {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_payload", Message: "Email and a password of at least 8 characters are required"})
		return
	}
	if !containsString(adminRoles, payload.Role) {
		payload.Role = adminRoleStaff
	}

	admin, err := a.storeCreateAdmin(c.Request.Context(), payload.Email, payload.Name, payload.Role, payload.Password)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

func (a *App) adminToggleAdminHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeAPIError(c, &apiError{Status: http.StatusBadRequest, Code: "invalid_id", Message: "Invalid admin id"})
		return
	}
	isActive, err := a.storeToggleAdmin(c.Request.Context(), id)
	if err != nil {
		writeAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "isActive": isActive})
}
