package content

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	photosNodePattern = regexp.MustCompile(`(?i)>\s*Photos\s*<`)
	linkedImgPattern  = regexp.MustCompile(`(?i)<a\b[^>]*>\s*<img\b[^>]*>\s*</a>`)
	imgPattern        = regexp.MustCompile(`(?i)<img\b([^>]*)>`)
	imgSrcPattern     = regexp.MustCompile(`(?i)src\s*=\s*(?:"([^"]+)"|'([^']+)'|([^\s>]+))`)
	imgSizePattern    = regexp.MustCompile(`(?i)\s*(width|height)\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]*)`)
	placeholderRef    = regexp.MustCompile(`__IMG_LINKED_PLACEHOLDER_(\d+)__`)
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// EscapeHTML escapes user-supplied text for safe injection into generated
// markup. Article bodies are deliberately not passed through this: they are
// the admin's own rich content and render verbatim.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// CleanExcerpt strips stray "Photos" tokens left over from imported content
// and normalizes whitespace. Safe to apply to already-clean text.
func CleanExcerpt(s string) string {
	s = photosPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// ProcessArticleHTML post-processes an article body for page embedding:
//  1. removes stray "Photos" tokens and collapses whitespace runs,
//  2. swaps already-anchor-wrapped images for indexed placeholders so the
//     wrapping pass below cannot double-wrap them,
//  3. drops visible ">Photos<" text nodes without touching file paths,
//  4. wraps every remaining bare <img> in an anchor pointing at its own src
//     (width/height attributes stripped so images scale responsively),
//  5. restores the protected anchors verbatim.
func ProcessArticleHTML(body string) string {
	out := photosPattern.ReplaceAllString(body, "")
	out = spacePattern.ReplaceAllString(out, " ")

	var linked []string
	out = linkedImgPattern.ReplaceAllStringFunc(out, func(match string) string {
		idx := len(linked)
		linked = append(linked, match)
		return fmt.Sprintf("__IMG_LINKED_PLACEHOLDER_%d__", idx)
	})

	out = photosNodePattern.ReplaceAllString(out, "><")

	out = imgPattern.ReplaceAllStringFunc(out, func(match string) string {
		attrs := imgPattern.FindStringSubmatch(match)[1]
		src := imageSrc(attrs)
		if src == "" {
			return match
		}
		cleaned := imgSizePattern.ReplaceAllString(attrs, "")
		return fmt.Sprintf(`<a class="img-thumb" href="%s" target="_blank" rel="noopener noreferrer"><img%s></a>`,
			EscapeHTML(src), cleaned)
	})

	out = placeholderRef.ReplaceAllStringFunc(out, func(ref string) string {
		idx, err := strconv.Atoi(placeholderRef.FindStringSubmatch(ref)[1])
		if err != nil || idx >= len(linked) {
			return ""
		}
		return linked[idx]
	})

	return out
}

func imageSrc(attrs string) string {
	m := imgSrcPattern.FindStringSubmatch(attrs)
	if m == nil {
		return ""
	}
	for _, group := range m[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}
