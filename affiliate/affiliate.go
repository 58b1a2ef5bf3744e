// Package affiliate appends the tracking parameter to marketplace URLs found
// in generated HTML. The transform is pure and idempotent.
package affiliate

import (
	"regexp"
	"strings"
)

// Matches amazon marketplace URLs (any TLD) and amzn.to short links up to the
// next quote, whitespace or angle bracket.
var marketplaceURLPattern = regexp.MustCompile(`https?://(?:[a-zA-Z0-9-]+\.)*(?:amazon\.[a-zA-Z.]+|amzn\.to)/[^\s"'<>]*`)

var tagParamPattern = regexp.MustCompile(`[?&]tag=`)

// Tag returns html with every marketplace URL carrying tag=<tag>. URLs that
// already carry a tag parameter and non-marketplace URLs are left untouched.
func Tag(html, tag string) string {
	if tag == "" {
		return html
	}
	return marketplaceURLPattern.ReplaceAllStringFunc(html, func(u string) string {
		return TagURL(u, tag)
	})
}

// TagURL tags a single URL. Exported because the assembler also builds product
// links directly from the catalog.
func TagURL(u, tag string) string {
	if tag == "" {
		return u
	}
	if !strings.Contains(u, "amazon.") && !strings.Contains(u, "amzn.to") {
		return u
	}
	if tagParamPattern.MatchString(u) {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "tag=" + tag
}
