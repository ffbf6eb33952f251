package main

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"
)

// contentLanguages lists the locales the site publishes texts in. The public
// payload and the admin editor both follow this list, so adding a locale is a
// one-line change plus new rows.
var contentLanguages = []string{"sv", "en"}

func isContentLanguage(lang string) bool {
	for _, l := range contentLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// SiteContent is one editable text key with its translations.
type SiteContent struct {
	Key       string            `json:"key"`
	Texts     map[string]string `json:"texts"`
	UpdatedAt time.Time         `json:"updated_at"`
	UpdatedBy string            `json:"updated_by"`
}

// siteContentStore keeps the site_contents table in memory. The resolved
// texts are read on every public page load, so reads never touch the
// database; writes go through Save which updates both.
type siteContentStore struct {
	mu    sync.RWMutex
	cache map[string]SiteContent
}

func newSiteContentStore() *siteContentStore {
	return &siteContentStore{cache: make(map[string]SiteContent)}
}

// Load replaces the cache with the current table contents.
func (s *siteContentStore) Load(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, "SELECT key, lang, text, updated_at, updated_by FROM site_contents")
	if err != nil {
		return err
	}
	defer rows.Close()

	fresh := make(map[string]SiteContent)
	for rows.Next() {
		var (
			key, lang, text, updatedBy string
			updatedAt                  time.Time
		)
		if err := rows.Scan(&key, &lang, &text, &updatedAt, &updatedBy); err != nil {
			return err
		}
		entry, ok := fresh[key]
		if !ok {
			entry = SiteContent{Key: key, Texts: make(map[string]string)}
		}
		entry.Texts[lang] = text
		// The newest row wins the key-level audit fields.
		if updatedAt.After(entry.UpdatedAt) {
			entry.UpdatedAt = updatedAt
			entry.UpdatedBy = updatedBy
		}
		fresh[key] = entry
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache = fresh
	s.mu.Unlock()
	return nil
}

// Snapshot structures the cache per language, { "sv": { key: text }, ... },
// which is the shape the frontend merges over its static dictionaries. Empty
// texts are omitted so the static fallback stays visible.
func (s *siteContentStore) Snapshot() map[string]map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make(map[string]map[string]string, len(contentLanguages))
	for _, lang := range contentLanguages {
		res[lang] = make(map[string]string)
	}
	for key, content := range s.cache {
		for lang, text := range content.Texts {
			if text == "" {
				continue
			}
			if bucket, ok := res[lang]; ok {
				bucket[key] = text
			}
		}
	}
	return res
}

// All returns every key sorted, for the admin editor.
func (s *siteContentStore) All() []SiteContent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]SiteContent, 0, len(s.cache))
	for _, c := range s.cache {
		list = append(list, cloneSiteContent(c))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list
}

// Save upserts one row per supplied translation, then folds the result into
// the cache so it is globally visible without a reload. Languages absent from
// content.Texts are left untouched.
func (s *siteContentStore) Save(ctx context.Context, db *sql.DB, content SiteContent) error {
	now := time.Now()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, lang := range contentLanguages {
		text, ok := content.Texts[lang]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO site_contents (key, lang, text, updated_at, updated_by)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (key, lang) DO UPDATE SET
				text = EXCLUDED.text,
				updated_at = EXCLUDED.updated_at,
				updated_by = EXCLUDED.updated_by
		`, content.Key, lang, text, now, content.UpdatedBy); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	content.UpdatedAt = now
	s.put(content)
	return nil
}

// put merges the given translations over whatever the cache already holds.
func (s *siteContentStore) put(content SiteContent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[content.Key]
	if !ok {
		entry = SiteContent{Key: content.Key, Texts: make(map[string]string)}
	}
	for lang, text := range content.Texts {
		entry.Texts[lang] = text
	}
	entry.UpdatedAt = content.UpdatedAt
	entry.UpdatedBy = content.UpdatedBy
	s.cache[content.Key] = entry
}

func cloneSiteContent(c SiteContent) SiteContent {
	texts := make(map[string]string, len(c.Texts))
	for lang, text := range c.Texts {
		texts[lang] = text
	}
	c.Texts = texts
	return c
}
