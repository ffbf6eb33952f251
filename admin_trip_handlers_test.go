package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTripAdminTestApp(gw TripGateway) *App {
	app := &App{
		cfg:   &Config{AppSigningSecret: "test-secret"},
		log:   testLogger(),
		trips: gw,
	}
	app.adminListTripSlugs = func(ctx context.Context) (map[string]struct{}, error) {
		return map[string]struct{}{"fjallresa": {}}, nil
	}
	app.adminCreateTrip = func(ctx context.Context, trip *TripDraft) error {
		return nil
	}
	return app
}

func TestAdminCreateTrip_AllocatesFreeSlug(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := newTripAdminTestApp(&fakeTripGateway{})

	var created TripDraft
	app.adminCreateTrip = func(ctx context.Context, trip *TripDraft) error {
		created = *trip
		return nil
	}

	router := gin.New()
	router.POST("/trips", app.adminCreateTripHandler)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trips", bytes.NewBufferString(`{"title":"Fjällresa","type":"multi"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if created.Slug != "fjallresa-2" {
		t.Fatalf("expected slug fjallresa-2, got %q", created.Slug)
	}
	if created.Status != tripStatusDraft {
		t.Fatalf("new trips must start as drafts, got %q", created.Status)
	}
	if _, err := uuid.Parse(created.ID); err != nil {
		t.Fatalf("expected a uuid trip id, got %q", created.ID)
	}
	if len(created.Itinerary) == 0 {
		t.Fatal("multi-day trips must be seeded with an itinerary template")
	}
}

func TestAdminCreateTrip_RequiresTitle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := newTripAdminTestApp(&fakeTripGateway{})

	router := gin.New()
	router.POST("/trips", app.adminCreateTripHandler)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trips", bytes.NewBufferString(`{"title":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminSaveTrip_GoesThroughGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw := &fakeTripGateway{}
	app := newTripAdminTestApp(gw)

	router := gin.New()
	router.PUT("/trips/:id", app.adminSaveTripHandler)

	trip := testTrip()
	payload, _ := json.Marshal(trip)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/trips/"+trip.ID, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gw.saveCount() != 1 {
		t.Fatalf("expected 1 gateway save, got %d", gw.saveCount())
	}
	if gw.lastSave().ID != trip.ID {
		t.Fatalf("gateway received wrong trip id %q", gw.lastSave().ID)
	}
}

func TestAdminSaveTrip_RejectsIDMismatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw := &fakeTripGateway{}
	app := newTripAdminTestApp(gw)

	router := gin.New()
	router.PUT("/trips/:id", app.adminSaveTripHandler)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/trips/other-id", bytes.NewBufferString(`{"id":"7b8e9c4a-1111-2222-3333-444455556666","title":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if gw.saveCount() != 0 {
		t.Fatal("mismatched save must not reach the gateway")
	}
}

func TestAdminDeleteTrip_DelegatesToGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw := &fakeTripGateway{}
	app := newTripAdminTestApp(gw)

	router := gin.New()
	router.DELETE("/trips/:id", app.adminDeleteTripHandler)
	router.POST("/trips/:id/delete", app.adminDeleteTripHandler)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/trips/abc-123", nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/trips/def-456/delete", nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from POST fallback route, got %d", rec.Code)
	}

	gw.mu.Lock()
	deletes := append([]string{}, gw.deletes...)
	gw.mu.Unlock()
	if len(deletes) != 2 || deletes[0] != "abc-123" || deletes[1] != "def-456" {
		t.Fatalf("unexpected deletes %v", deletes)
	}
}
