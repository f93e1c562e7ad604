package utils

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlug    = regexp.MustCompile("[^a-z0-9-]")
	multiDash  = regexp.MustCompile("-+")
	multiSpace = regexp.MustCompile(`\s+`)
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// FoldAccents strips combining marks so "Champú" and "champu" compare equal.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName lower-cases, folds accents and collapses whitespace. Batches
// of the same product are grouped by this key.
func NormalizeName(s string) string {
	s = FoldAccents(strings.ToLower(strings.TrimSpace(s)))
	return multiSpace.ReplaceAllString(s, " ")
}

// Slugify converts a string to a file-name friendly slug
func Slugify(s string) string {
	s = NormalizeName(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlug.ReplaceAllString(s, "")
	s = multiDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateInvoiceNo generates a human readable invoice number, e.g. FAC-20260315-1A2B3C4D
func GenerateInvoiceNo(prefix string, at time.Time) string {
	return prefix + "-" + at.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}
