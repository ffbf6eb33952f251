package main

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const defaultTripSlug = "resa"

// Swedish letters fold to single base letters (ö -> o, never "oe").
var swedishSlugReplacer = strings.NewReplacer(
	"å", "a", "Å", "a",
	"ä", "a", "Ä", "a",
	"ö", "o", "Ö", "o",
)

// slugify derives a URL slug from a title: Swedish transliteration, general
// diacritic stripping, lowercase, and any run of non-alphanumerics collapsed
// to a single hyphen. An empty result falls back to defaultTripSlug.
func slugify(title string) string {
	value := swedishSlugReplacer.Replace(title)

	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, value); err == nil {
		value = folded
	}
	value = strings.ToLower(value)

	var b strings.Builder
	pendingHyphen := false
	for _, r := range value {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}

	slug := b.String()
	if slug == "" {
		return defaultTripSlug
	}
	return slug
}

// allocateSlug derives a slug from the title and guarantees uniqueness against
// the provided slug set by probing incrementing numeric suffixes. It is a pure
// function; fetching the existing slugs is the caller's job.
func allocateSlug(title string, existing map[string]struct{}) string {
	base := slugify(title)
	if _, taken := existing[base]; !taken {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}
