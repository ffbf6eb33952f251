package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// ItineraryDay is one day of a multi-day trip programme.
type ItineraryDay struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Seeded the first time a trip becomes a multi-day trip with no itinerary yet.
var defaultItineraryTemplate = []ItineraryDay{
	{Title: "Dag 1", Description: ""},
	{Title: "Dag 2", Description: ""},
}

// TripDraft is the editable representation of one trip record. Known content
// fields are typed; unknown keys survive round-trips through Extra so older
// and newer frontends can share records.
type TripDraft struct {
	ID          string         `json:"id"`
	Status      string         `json:"status"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Intro       string         `json:"intro,omitempty"`
	Description string         `json:"description,omitempty"`
	Facts       string         `json:"facts,omitempty"`
	Media       map[string]any `json:"media,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Itinerary   []ItineraryDay `json:"itinerary,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownTripFields = []string{
	"id", "status", "type", "title", "slug",
	"intro", "description", "facts", "media", "tags", "itinerary",
	"createdAt", "updatedAt",
}

func (t TripDraft) MarshalJSON() ([]byte, error) {
	type plainTripDraft TripDraft
	known, err := json.Marshal(plainTripDraft(t))
	if err != nil {
		return nil, err
	}
	if len(t.Extra) == 0 {
		return known, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for key, value := range t.Extra {
		if _, exists := merged[key]; !exists {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

func (t *TripDraft) UnmarshalJSON(data []byte) error {
	type plainTripDraft TripDraft
	var plain plainTripDraft
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range knownTripFields {
		delete(raw, key)
	}
	if len(raw) > 0 {
		plain.Extra = raw
	}

	*t = TripDraft(plain)
	return nil
}

// serializeTrip produces the canonical serialized form used for snapshots and
// dirty-comparison. Map keys are sorted by encoding/json, so equal drafts
// always serialize identically.
func serializeTrip(t TripDraft) string {
	encoded, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	return string(encoded)
}

// tripSignature is a content signature used to detect "no change since the
// last failing save".
func tripSignature(t TripDraft) string {
	h := sha256.Sum256([]byte(serializeTrip(t)))
	return hex.EncodeToString(h[:])
}

func cloneTrip(t TripDraft) TripDraft {
	var clone TripDraft
	encoded, err := json.Marshal(t)
	if err != nil {
		return t
	}
	if err := json.Unmarshal(encoded, &clone); err != nil {
		return t
	}
	return clone
}

// TripPatch is a partial update merged into a draft by the editor. Status is
// deliberately absent: status only changes through an explicit save intent,
// never as a side effect of content edits.
type TripPatch struct {
	Type        *string         `json:"type,omitempty"`
	Title       *string         `json:"title,omitempty"`
	Slug        *string         `json:"slug,omitempty"`
	Intro       *string         `json:"intro,omitempty"`
	Description *string         `json:"description,omitempty"`
	Facts       *string         `json:"facts,omitempty"`
	Media       *map[string]any `json:"media,omitempty"`
	Tags        *[]string       `json:"tags,omitempty"`
	Itinerary   *[]ItineraryDay `json:"itinerary,omitempty"`

	Extra map[string]json.RawMessage `json:"extra,omitempty"`
}

// applyTripPatch merges the patch into the draft. Pure merge, no persistence.
// Setting the type to multi while the itinerary is empty seeds the two-day
// template. Switching away from multi keeps the itinerary: an accidental type
// toggle must not destroy a day-by-day programme, and readers only consult
// the itinerary for multi trips.
func applyTripPatch(t *TripDraft, patch TripPatch) {
	if patch.Type != nil {
		newType := normalizeTripType(*patch.Type)
		t.Type = newType
		if newType == tripTypeMulti && len(t.Itinerary) == 0 {
			t.Itinerary = append([]ItineraryDay{}, defaultItineraryTemplate...)
		}
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Slug != nil {
		t.Slug = *patch.Slug
	}
	if patch.Intro != nil {
		t.Intro = *patch.Intro
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Facts != nil {
		t.Facts = *patch.Facts
	}
	if patch.Media != nil {
		t.Media = *patch.Media
	}
	if patch.Tags != nil {
		t.Tags = *patch.Tags
	}
	if patch.Itinerary != nil {
		t.Itinerary = *patch.Itinerary
	}
	for key, value := range patch.Extra {
		if t.Extra == nil {
			t.Extra = make(map[string]json.RawMessage)
		}
		t.Extra[key] = value
	}
}
