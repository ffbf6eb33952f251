package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestSiteContentStore_SnapshotPerLanguage(t *testing.T) {
	s := newSiteContentStore()
	s.put(SiteContent{Key: "hero.title", Texts: map[string]string{"sv": "Res med oss", "en": "Travel with us"}})
	s.put(SiteContent{Key: "hero.sub", Texts: map[string]string{"sv": "Bekvämt och tryggt"}})

	snap := s.Snapshot()
	if snap["sv"]["hero.title"] != "Res med oss" {
		t.Errorf("sv hero.title = %q", snap["sv"]["hero.title"])
	}
	if snap["en"]["hero.title"] != "Travel with us" {
		t.Errorf("en hero.title = %q", snap["en"]["hero.title"])
	}
	if _, ok := snap["en"]["hero.sub"]; ok {
		t.Error("missing translation must not appear in the snapshot")
	}
}

func TestSiteContentStore_EmptyTextOmittedFromSnapshot(t *testing.T) {
	s := newSiteContentStore()
	s.put(SiteContent{Key: "footer.note", Texts: map[string]string{"sv": "Välkommen", "en": ""}})

	snap := s.Snapshot()
	if _, ok := snap["en"]["footer.note"]; ok {
		t.Error("empty text must be omitted so the static fallback stays visible")
	}
	if snap["sv"]["footer.note"] != "Välkommen" {
		t.Errorf("sv footer.note = %q", snap["sv"]["footer.note"])
	}
}

func TestSiteContentStore_PutMergesTranslations(t *testing.T) {
	s := newSiteContentStore()
	s.put(SiteContent{Key: "hero.title", Texts: map[string]string{"sv": "Res med oss"}, UpdatedBy: "anna@helsingbuss.se"})
	s.put(SiteContent{Key: "hero.title", Texts: map[string]string{"en": "Travel with us"}, UpdatedBy: "erik@helsingbuss.se", UpdatedAt: time.Now()})

	all := s.All()
	if len(all) != 1 {
		t.Fatalf("expected one key, got %d", len(all))
	}
	got := all[0]
	if got.Texts["sv"] != "Res med oss" || got.Texts["en"] != "Travel with us" {
		t.Errorf("translations not merged: %#v", got.Texts)
	}
	if got.UpdatedBy != "erik@helsingbuss.se" {
		t.Errorf("updated_by = %q, want the latest editor", got.UpdatedBy)
	}
}

func TestSiteContentStore_AllSortedAndDetached(t *testing.T) {
	s := newSiteContentStore()
	s.put(SiteContent{Key: "b.key", Texts: map[string]string{"sv": "B"}})
	s.put(SiteContent{Key: "a.key", Texts: map[string]string{"sv": "A"}})

	all := s.All()
	if all[0].Key != "a.key" || all[1].Key != "b.key" {
		t.Fatalf("keys not sorted: %q, %q", all[0].Key, all[1].Key)
	}

	// Mutating a returned entry must not reach the cache.
	all[0].Texts["sv"] = "ändrad"
	if s.All()[0].Texts["sv"] != "A" {
		t.Error("All returned an aliased map")
	}
}

func TestAdminUpsertContentHandler_RejectsUnknownLanguage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := &App{
		cfg:     &Config{AppSigningSecret: "test-secret"},
		log:     testLogger(),
		content: newSiteContentStore(),
	}
	r := gin.New()
	r.POST("/content", app.adminUpsertContentHandler)

	body := []byte(`{"key":"hero.title","texts":{"de":"Reisen Sie mit uns"}}`)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/content", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(app.content.All()) != 0 {
		t.Error("rejected payload must not reach the cache")
	}
}
