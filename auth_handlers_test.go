package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAuthTestApp() *App {
	app := &App{
		cfg: &Config{AppSigningSecret: "test-secret", Env: "development"},
		log: testLogger(),
	}
	app.adminAuthenticate = func(ctx context.Context, email, password string) (*AdminUser, error) {
		if email == "anna@helsingbuss.se" && password == "correct-horse" {
			return &AdminUser{ID: 1, Email: email, Name: "Anna", Role: adminRoleAdmin, IsActive: true}, nil
		}
		return nil, &apiError{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "Invalid credentials"}
	}
	return app
}

func authTestRouter(app *App) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", app.adminLoginHandler)
	r.POST("/logout", app.adminLogoutHandler)
	r.GET("/session", app.adminSessionHandler)
	return r
}

func TestAdminLogin_SetsSessionCookie(t *testing.T) {
	app := newAuthTestApp()
	router := authTestRouter(app)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"anna@helsingbuss.se","password":"correct-horse"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == adminCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("expected a session cookie to be set")
	}
	if !sessionCookie.HttpOnly {
		t.Fatal("session cookie must be http-only")
	}

	session, err := app.verifyAdminSessionToken(sessionCookie.Value)
	if err != nil {
		t.Fatalf("cookie does not verify: %v", err)
	}
	if session.Role != adminRoleAdmin {
		t.Fatalf("unexpected role %q", session.Role)
	}
}

func TestAdminLogin_RejectsBadCredentials(t *testing.T) {
	app := newAuthTestApp()
	router := authTestRouter(app)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"anna@helsingbuss.se","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminLogin_NormalizesEmail(t *testing.T) {
	app := newAuthTestApp()
	var seenEmail string
	app.adminAuthenticate = func(ctx context.Context, email, password string) (*AdminUser, error) {
		seenEmail = email
		return &AdminUser{Email: email, Role: adminRoleStaff, IsActive: true}, nil
	}
	router := authTestRouter(app)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"  Anna@Helsingbuss.SE ","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seenEmail != "anna@helsingbuss.se" {
		t.Fatalf("expected lowercased trimmed email, got %q", seenEmail)
	}
}

func TestAdminSessionEndpoint_RoundTrip(t *testing.T) {
	app := newAuthTestApp()
	router := authTestRouter(app)

	token, err := app.createAdminSessionToken(AdminSession{Email: "anna@helsingbuss.se", Role: adminRoleAdmin})
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(&http.Cookie{Name: adminCookieName, Value: token})
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "anna@helsingbuss.se") {
		t.Fatalf("session body missing email: %s", rec.Body.String())
	}
}

func TestAdminLogout_ClearsCookie(t *testing.T) {
	app := newAuthTestApp()
	router := authTestRouter(app)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == adminCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected the session cookie to be expired")
	}
}
