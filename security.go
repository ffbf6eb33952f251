package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const adminCookieName = "helsingbuss_admin_session"
const adminSessionDuration = 12 * time.Hour

const (
	adminRoleAdmin = "admin"
	adminRoleStaff = "staff"
)

var adminRoles = []string{adminRoleAdmin, adminRoleStaff}

// AdminSession is the claim set carried in the session cookie.
type AdminSession struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (a *App) createAdminSessionToken(session AdminSession) (string, error) {
	claims := jwt.MapClaims{
		"email": session.Email,
		"name":  session.Name,
		"role":  session.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(adminSessionDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.cfg.AppSigningSecret))
}

func (a *App) verifyAdminSessionToken(tokenString string) (*AdminSession, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(a.cfg.AppSigningSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if email == "" || !containsString(adminRoles, role) {
		return nil, fmt.Errorf("invalid session payload")
	}
	session := &AdminSession{Email: email, Role: role}
	if name, ok := claims["name"].(string); ok {
		session.Name = name
	}
	return session, nil
}

func (a *App) startAdminSession(c *gin.Context, session AdminSession) error {
	token, err := a.createAdminSessionToken(session)
	if err != nil {
		return err
	}
	secure := strings.EqualFold(a.cfg.Env, "production")
	c.SetCookie(adminCookieName, token, int(adminSessionDuration.Seconds()), "/", "", secure, true)
	return nil
}

func (a *App) clearAdminSession(c *gin.Context) {
	secure := strings.EqualFold(a.cfg.Env, "production")
	c.SetCookie(adminCookieName, "", -1, "/", "", secure, true)
}

func (a *App) requireAdminSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Admin session required"})
			c.Abort()
			return
		}
		session, err := a.verifyAdminSessionToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Admin session required"})
			c.Abort()
			return
		}
		c.Set("adminSession", *session)
		c.Next()
	}
}

func (a *App) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := getAdminSession(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Admin session required"})
			c.Abort()
			return
		}
		if session.Role != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "Insufficient role"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func getAdminSession(c *gin.Context) (AdminSession, error) {
	value, ok := c.Get("adminSession")
	if !ok {
		return AdminSession{}, fmt.Errorf("missing session")
	}
	session, ok := value.(AdminSession)
	if !ok {
		return AdminSession{}, fmt.Errorf("invalid session")
	}
	return session, nil
}
