package headlines

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// DefaultGoogleNewsURL is the Google News RSS search endpoint.
const DefaultGoogleNewsURL = "https://news.google.com/rss/search"

// Matches href="..." or href='...'
var reHrefAny = regexp.MustCompile(`(?i)\bhref\s*=\s*(?:"([^"]+)"|'([^']+)')`)

func googleNewsSearchURL(base, query string) string {
	return fmt.Sprintf("%s?q=%s&hl=en-US&gl=US&ceid=US:en", base, url.QueryEscape(query))
}

// publisherURL digs the publisher's own link out of a Google News item and
// falls back to the item link.
func publisherURL(it *gofeed.Item) string {
	desc := strings.TrimSpace(it.Description)
	for i := 0; i < 3; i++ {
		unescaped := html.UnescapeString(desc)
		if unescaped == desc {
			break
		}
		desc = unescaped
	}
	for _, m := range reHrefAny.FindAllStringSubmatch(desc, -1) {
		href := strings.TrimSpace(m[1])
		if href == "" {
			href = strings.TrimSpace(m[2])
		}
		if isPublisherURL(href) {
			return href
		}
	}
	if isPublisherURL(it.GUID) {
		return strings.TrimSpace(it.GUID)
	}
	return strings.TrimSpace(it.Link)
}

// isPublisherURL reports whether u is an absolute http(s) link outside Google.
func isPublisherURL(u string) bool {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}
	for _, gd := range []string{"google.com", "google.ca", "google.co.uk", "google.fr"} {
		if host == gd || strings.HasSuffix(host, "."+gd) {
			return false
		}
	}
	return true
}
