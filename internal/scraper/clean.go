package scraper

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// placeholderPrefix marks the base64 GIF the wiki serves while an
	// image is still lazy loading.
	placeholderPrefix = "data:image/gif;base64"

	// targetImageWidth replaces whatever width the wiki scaled a cover
	// image down to, so stored assets are consistently sized.
	targetImageWidth = "1000"

	imageProxyBase = "https://wsrv.nl/"
)

// ignoredEventTypes lists administrative or non-digital event categories
// that are filtered out of the catalog.
var ignoredEventTypes = []string{"Test Run", "In-Person", "Web"}

var (
	trailingDatePattern = regexp.MustCompile(`\s+\d{4}-\d{2}-\d{2}$`)
	scaleWidthPattern   = regexp.MustCompile(`/scale-to-width-down/\d+`)
	revisionPattern     = regexp.MustCompile(`(?i)(.+?\.(?:png|jpg|jpeg|gif))(/revision.+)?`)
)

// cleanEventName trims the scraped name and strips the redundant trailing
// "YYYY-MM-DD" suffix some rows append.
func cleanEventName(name string) string {
	return trailingDatePattern.ReplaceAllString(strings.TrimSpace(name), "")
}

// cleanImageURL normalizes a scraped image URL. It returns "" for a
// lazy-load placeholder (the row is dropped), rewrites scaled assets to
// the target width, and otherwise strips the wiki's /revision/ versioning
// suffix.
func cleanImageURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, placeholderPrefix) {
		return ""
	}
	if strings.Contains(raw, "/scale-to-width-down/") {
		return scaleWidthPattern.ReplaceAllString(raw, "/scale-to-width-down/"+targetImageWidth)
	}
	return revisionPattern.ReplaceAllString(raw, "$1")
}

// proxyImageURL wraps a cleaned image URL through the wsrv.nl image proxy
// with fixed width, output format, and quality, so stored URLs are uniform
// regardless of the original host.
func proxyImageURL(cleaned string) string {
	return imageProxyBase + "?url=" + url.QueryEscape(cleaned) + "&w=" + targetImageWidth + "&output=webp&q=85"
}

// shouldIgnore reports whether a row's cleaned name or type classifier
// matches one of the ignored event categories.
func shouldIgnore(name, eventType string) bool {
	for _, ignored := range ignoredEventTypes {
		if strings.Contains(name, ignored) || strings.Contains(eventType, ignored) {
			return true
		}
	}
	return false
}
