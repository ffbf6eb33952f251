package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestTripGateway_SaveTripReturnsAcknowledgedRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.URL.Path != "/trips/abc-123" {
			t.Errorf("path = %s", r.URL.Path)
		}

		var draft TripDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		// The service normalizes server-owned fields.
		draft.UpdatedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(draft)
	}))
	defer server.Close()

	gw := &restTripGateway{BaseURL: server.URL, Client: server.Client()}
	saved, err := gw.SaveTrip(context.Background(), TripDraft{ID: "abc-123", Status: "draft", Type: "day", Title: "Tur", Slug: "tur"})
	if err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}
	if saved.UpdatedAt.IsZero() {
		t.Fatal("acknowledged updatedAt missing")
	}
	if saved.Title != "Tur" {
		t.Fatalf("title = %q", saved.Title)
	}
}

func TestRestTripGateway_SaveTripSurfacesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "slug already exists"}`))
	}))
	defer server.Close()

	gw := &restTripGateway{BaseURL: server.URL, Client: server.Client()}
	_, err := gw.SaveTrip(context.Background(), TripDraft{ID: "abc-123", Title: "Tur"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "slug already exists" {
		t.Fatalf("err = %q, want the envelope message", err.Error())
	}
}

func TestRestTripGateway_SaveTripFallsBackToStatusMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	gw := &restTripGateway{BaseURL: server.URL, Client: server.Client()}
	_, err := gw.SaveTrip(context.Background(), TripDraft{ID: "abc-123"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "trip service returned status 502" {
		t.Fatalf("err = %q", err.Error())
	}
}

func TestRestTripGateway_DeleteFallsBackToPostOn405(t *testing.T) {
	var deleteCalls, postCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/trips/abc-123":
			deleteCalls++
			w.WriteHeader(http.StatusMethodNotAllowed)
		case r.Method == http.MethodPost && r.URL.Path == "/trips/abc-123/delete":
			postCalls++
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok": true}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	gw := &restTripGateway{BaseURL: server.URL, Client: server.Client()}
	if err := gw.DeleteTrip(context.Background(), "abc-123"); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}
	if deleteCalls != 1 || postCalls != 1 {
		t.Fatalf("delete calls = %d, post fallback calls = %d", deleteCalls, postCalls)
	}
}

func TestRestTripGateway_DeleteSurfacesEnvelopeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"ok": false, "error": "trip has active bookings"}`))
	}))
	defer server.Close()

	gw := &restTripGateway{BaseURL: server.URL, Client: server.Client()}
	err := gw.DeleteTrip(context.Background(), "abc-123")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "trip has active bookings" {
		t.Fatalf("err = %q", err.Error())
	}
}
