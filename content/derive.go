package content

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ExcerptLength is the display cap for derived article summaries.
const ExcerptLength = 100

var (
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	spacePattern  = regexp.MustCompile(`\s+`)
	photosPattern = regexp.MustCompile(`(?i)\bPhotos\b`)
)

// Slug derives the stable article identifier from the publication date and
// title: article_<YYYYMMDD>_<abs checksum>. The checksum is a 32-bit rolling
// hash (h = h*31 + charCode) over the title, so identical inputs always map
// to the same slug but distinct titles are not guaranteed to differ.
func Slug(pubDate time.Time, title string) string {
	var h int32
	for _, r := range title {
		h = h*31 + int32(r)
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("article_%s_%d", pubDate.Format("20060102"), n)
}

// Excerpt derives a plain-text summary from a rich HTML fragment: tags and
// stray "Photos" tokens are removed, whitespace runs collapse to single
// spaces, and the result is capped at maxLen characters plus an ellipsis.
func Excerpt(body string, maxLen int) string {
	text := tagPattern.ReplaceAllString(body, "")
	text = photosPattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
