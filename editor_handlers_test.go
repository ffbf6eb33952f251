package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newEditorTestApp(gw TripGateway) *App {
	app := &App{
		cfg:            &Config{AppSigningSecret: "test-secret"},
		log:            testLogger(),
		trips:          gw,
		editorSessions: newEditorSessionManager(),
		autosaveDelay:  time.Hour,
	}
	app.adminGetTrip = func(ctx context.Context, id string) (*TripDraft, error) {
		trip := testTrip()
		trip.ID = id
		return &trip, nil
	}
	return app
}

func editorTestRouter(app *App) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/trips/:id/editor", app.adminOpenEditorHandler)
	r.GET("/editor/:sessionID", app.adminEditorStateHandler)
	r.POST("/editor/:sessionID/patch", app.adminEditorPatchHandler)
	r.POST("/editor/:sessionID/autosave", app.adminEditorAutosaveHandler)
	r.POST("/editor/:sessionID/save", app.adminEditorSaveHandler)
	r.DELETE("/editor/:sessionID", app.adminCloseEditorHandler)
	return r
}

func decodeEditorState(t *testing.T, rec *httptest.ResponseRecorder) EditorState {
	t.Helper()
	var state EditorState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode editor state: %v (%s)", err, rec.Body.String())
	}
	return state
}

func TestEditorHandlers_OpenPatchSaveClose(t *testing.T) {
	gw := &fakeTripGateway{}
	app := newEditorTestApp(gw)
	router := editorTestRouter(app)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trips/7b8e9c4a-1111-2222-3333-444455556666/editor", nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	state := decodeEditorState(t, rec)
	if state.SessionID == "" {
		t.Fatal("open: expected a session id")
	}
	if state.Dirty {
		t.Fatal("open: fresh session must not be dirty")
	}

	rec = httptest.NewRecorder()
	body := bytes.NewBufferString(`{"intro":"Ny introduktion"}`)
	req = httptest.NewRequest(http.MethodPost, "/editor/"+state.SessionID+"/patch", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state = decodeEditorState(t, rec)
	if !state.Dirty {
		t.Fatal("patch: session must be dirty after a mutation")
	}
	if state.Trip.Intro != "Ny introduktion" {
		t.Fatalf("patch: intro not applied, got %q", state.Trip.Intro)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/editor/"+state.SessionID+"/save", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state = decodeEditorState(t, rec)
	if state.Dirty {
		t.Fatal("save: session must be clean after a successful save")
	}
	if gw.saveCount() != 1 {
		t.Fatalf("save: expected 1 gateway save, got %d", gw.saveCount())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/editor/"+state.SessionID, nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("close: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/editor/"+state.SessionID, nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("state after close: expected 404, got %d", rec.Code)
	}
}

func TestEditorHandlers_PublishIntent(t *testing.T) {
	gw := &fakeTripGateway{}
	app := newEditorTestApp(gw)
	router := editorTestRouter(app)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trips/7b8e9c4a-1111-2222-3333-444455556666/editor", nil)
	router.ServeHTTP(rec, req)
	state := decodeEditorState(t, rec)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/editor/"+state.SessionID+"/save", bytes.NewBufferString(`{"intent":"publish"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	state = decodeEditorState(t, rec)
	if state.Trip.Status != tripStatusPublished {
		t.Fatalf("publish: expected published status, got %q", state.Trip.Status)
	}
	if gw.lastSave().Status != tripStatusPublished {
		t.Fatalf("publish: gateway should have received published draft, got %q", gw.lastSave().Status)
	}
}

func TestEditorHandlers_RejectsUnknownIntent(t *testing.T) {
	gw := &fakeTripGateway{}
	app := newEditorTestApp(gw)
	router := editorTestRouter(app)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trips/7b8e9c4a-1111-2222-3333-444455556666/editor", nil)
	router.ServeHTTP(rec, req)
	state := decodeEditorState(t, rec)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/editor/"+state.SessionID+"/save", bytes.NewBufferString(`{"intent":"destroy"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown intent, got %d", rec.Code)
	}
	if gw.saveCount() != 0 {
		t.Fatalf("unknown intent must not reach the gateway, got %d saves", gw.saveCount())
	}
}

func TestEditorHandlers_AutosaveToggle(t *testing.T) {
	gw := &fakeTripGateway{}
	app := newEditorTestApp(gw)
	router := editorTestRouter(app)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trips/7b8e9c4a-1111-2222-3333-444455556666/editor", nil)
	router.ServeHTTP(rec, req)
	state := decodeEditorState(t, rec)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/editor/"+state.SessionID+"/autosave", bytes.NewBufferString(`{"enabled":false}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("autosave toggle: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
