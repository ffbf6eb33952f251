package main

import "testing"

func TestSlugify_SwedishTransliteration(t *testing.T) {
	cases := map[string]string{
		"Åre–Östersund!!":       "are-ostersund",
		"Skärgårdskryssning":    "skargardskryssning",
		"Göteborg & Liseberg":   "goteborg-liseberg",
		"  Dagstur till Malmö ": "dagstur-till-malmo",
		"Côte d'Azur":           "cote-d-azur",
	}
	for input, want := range cases {
		if got := slugify(input); got != want {
			t.Errorf("slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSlugify_OnlyAllowedCharacters(t *testing.T) {
	slug := slugify("Åre–Östersund!!")
	for _, r := range slug {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
		if !ok {
			t.Fatalf("slug %q contains disallowed rune %q", slug, r)
		}
	}
	if slug[0] == '-' || slug[len(slug)-1] == '-' {
		t.Fatalf("slug %q has leading or trailing hyphen", slug)
	}
}

func TestSlugify_EmptyFallsBack(t *testing.T) {
	for _, input := range []string{"", "!!!", "–—", "   "} {
		if got := slugify(input); got != defaultTripSlug {
			t.Errorf("slugify(%q) = %q, want %q", input, got, defaultTripSlug)
		}
	}
}

func TestAllocateSlug_CollisionProbing(t *testing.T) {
	existing := map[string]struct{}{
		"trip":   {},
		"trip-2": {},
	}
	if got := allocateSlug("Trip", existing); got != "trip-3" {
		t.Errorf("allocateSlug collision = %q, want trip-3", got)
	}
}

func TestAllocateSlug_NoCollision(t *testing.T) {
	existing := map[string]struct{}{"annan-resa": {}}
	if got := allocateSlug("Fjällresa", existing); got != "fjallresa" {
		t.Errorf("allocateSlug = %q, want fjallresa", got)
	}
}
