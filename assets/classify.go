// Package assets classifies, ranks, and acquires the assets a rendered
// page references: separating brand imagery from tracking beacons, picking
// download candidates, and fetching them with content-addressed naming.
package assets

import (
	"net/url"
	"strings"
)

// trackerDomains is the denylist of known ad/analytics/beacon hosts.
// Matching walks parent domains, so "pagead2.googlesyndication.com"
// matches via "googlesyndication.com".
var trackerDomains = map[string]struct{}{
	"google-analytics.com":   {},
	"googletagmanager.com":   {},
	"googletagservices.com":  {},
	"googlesyndication.com":  {},
	"googleadservices.com":   {},
	"doubleclick.net":        {},
	"connect.facebook.net":   {},
	"facebook.net":           {},
	"fbcdn.net":              {},
	"tealiumiq.com":          {},
	"adnxs.com":              {},
	"adsrvr.org":             {},
	"amazon-adsystem.com":    {},
	"criteo.com":             {},
	"criteo.net":             {},
	"outbrain.com":           {},
	"taboola.com":            {},
	"moatads.com":            {},
	"pubmatic.com":           {},
	"rubiconproject.com":     {},
	"scorecardresearch.com":  {},
	"quantserve.com":         {},
	"hotjar.com":             {},
	"mixpanel.com":           {},
	"segment.io":             {},
	"segment.com":            {},
	"chartbeat.com":          {},
	"demdex.net":             {},
	"krxd.net":               {},
	"bluekai.com":            {},
	"mathtag.com":            {},
	"serving-sys.com":        {},
	"rlcdn.com":              {},
	"sharethis.com":          {},
	"addthis.com":            {},
	"analytics.twitter.com":  {},
	"ads-twitter.com":        {},
	"static.ads-twitter.com": {},
}

// trackerPaths are path markers for beacon endpoints hosted on otherwise
// legitimate domains.
var trackerPaths = []string{
	"facebook.com/tr",
	"/collect?",
	"/beacon/",
	"/pixel/",
	"/__utm.gif",
}

// beaconKeywords flag parameter-laden measurement calls.
var beaconKeywords = []string{"pixel", "beacon", "track", "analytics", "impression"}

// longQueryThreshold is the query-string length above which a beacon
// keyword alone is enough to classify a URL as tracking.
const longQueryThreshold = 60

// IsTracking reports whether a URL is a tracking beacon rather than a
// genuine content asset. Pure and total: no I/O, never fails. False
// negatives and positives are accepted tradeoffs.
func IsTracking(rawURL string) bool {
	lower := strings.ToLower(rawURL)

	u, err := url.Parse(rawURL)
	if err == nil && u.Hostname() != "" {
		if isTrackerDomain(u.Hostname()) {
			return true
		}
	}
	for _, p := range trackerPaths {
		if strings.Contains(lower, p) {
			return true
		}
	}

	query := ""
	if idx := strings.IndexByte(lower, '?'); idx >= 0 {
		query = lower[idx+1:]
	}
	path := lower
	if idx := strings.IndexByte(lower, '?'); idx >= 0 {
		path = lower[:idx]
	}

	keyword := false
	for _, k := range beaconKeywords {
		if strings.Contains(lower, k) {
			keyword = true
			break
		}
	}

	// Tiny-gif beacon: .gif + query + keyword.
	if strings.HasSuffix(path, ".gif") && query != "" && keyword {
		return true
	}

	// Parameter-laden measurement call: keyword + long query.
	if keyword && len(query) > longQueryThreshold {
		return true
	}

	return false
}

// isTrackerDomain checks the host and every parent domain against the
// denylist.
func isTrackerDomain(host string) bool {
	host = strings.ToLower(host)
	if _, ok := trackerDomains[host]; ok {
		return true
	}
	for {
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			return false
		}
		host = host[idx+1:]
		if _, ok := trackerDomains[host]; ok {
			return true
		}
	}
}
