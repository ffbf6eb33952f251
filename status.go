package main

import "strings"

const (
	tripStatusDraft     = "draft"
	tripStatusPublished = "published"
	tripStatusArchived  = "archived"

	tripTypeDay   = "day"
	tripTypeMulti = "multi"
	tripTypeFun   = "fun"
)

var (
	tripStatuses = []string{tripStatusDraft, tripStatusPublished, tripStatusArchived}
	tripTypes    = []string{tripTypeDay, tripTypeMulti, tripTypeFun}

	// Tag-derived pseudo-categories accepted by the public marketplace filter.
	// They are never stored as trip types.
	publicTripCategories = []string{tripTypeDay, tripTypeMulti, tripTypeFun, "winter", "cruise"}
)

// normalizeTripStatus maps freely-cased status values to the canonical
// lower-case form. Unrecognized or empty input falls back to draft; the
// function is total and never errors.
func normalizeTripStatus(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if containsString(tripStatuses, value) {
		return value
	}
	return tripStatusDraft
}

// normalizeTripType maps freely-cased trip type values to the canonical
// lower-case form, defaulting to a day trip.
func normalizeTripType(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if containsString(tripTypes, value) {
		return value
	}
	return tripTypeDay
}

func containsString(list []string, value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}
