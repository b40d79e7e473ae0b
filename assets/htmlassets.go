package assets

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/brandlens/models"
)

// HTMLDiscovery is the asset inventory recoverable from serialized HTML
// alone. It carries no layout measurements; candidates from this path rank
// behind measured ones.
type HTMLDiscovery struct {
	Records       []models.AssetRecord
	Candidates    []models.ImageCandidate
	VideoEmbeds   []models.VideoEmbed
	LogoURL       string
	InlineLogoSVG string
}

var (
	imgSel        = cascadia.MustCompile("img[src], img[data-src], img[data-lazy-src], img[srcset]")
	iconSel       = cascadia.MustCompile(`link[rel="icon"], link[rel="shortcut icon"], link[rel="apple-touch-icon"], link[rel="apple-touch-icon-precomposed"]`)
	metaImageSel  = cascadia.MustCompile(`meta[property="og:image"], meta[property="og:image:url"], meta[name="twitter:image"]`)
	metaVideoSel  = cascadia.MustCompile(`meta[property="og:video"], meta[property="og:video:url"], meta[property="og:video:secure_url"], meta[name="twitter:player"]`)
	stylesheetSel = cascadia.MustCompile(`link[rel="stylesheet"][href]`)
	scriptSel     = cascadia.MustCompile("script[src]")
	videoSel      = cascadia.MustCompile("video[src], video source[src], video[data-src], video source[data-src]")
	anchorSel     = cascadia.MustCompile("a[href]")
	vidyardSel    = cascadia.MustCompile("[data-vid-uuid], img.vidyard-player-embed[data-uuid]")
	inlineSVGSel  = cascadia.MustCompile("header svg, nav svg, a[href='/'] svg")
)

var (
	cssURLRe   = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)
	fontExtRe  = regexp.MustCompile(`\.(woff2?|ttf|otf|eot)(\?|#|$)`)
	videoExtRe = regexp.MustCompile(`\.(mp4|webm|m3u8|mov)(\?|#|$)`)
)

// DiscoverFromHTML recovers the asset inventory from a serialized page.
// It is the fallback path when in-page evaluation is unavailable; it sees
// only markup, so lazy-loaded and script-injected assets may be missing.
func DiscoverFromHTML(htmlStr, pageURL string) (*HTMLDiscovery, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}

	d := &HTMLDiscovery{}
	add := func(raw string, kind models.AssetKind) string {
		abs := resolveURL(base, raw)
		if abs == "" {
			return ""
		}
		d.Records = append(d.Records, models.AssetRecord{URL: abs, Kind: kind})
		return abs
	}

	doc.FindMatcher(imgSel).Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
			if v, ok := s.Attr(attr); ok {
				if abs := add(v, models.AssetImage); abs != "" {
					d.Candidates = append(d.Candidates, models.ImageCandidate{URL: abs})
				}
			}
		}
		if v, ok := s.Attr("srcset"); ok {
			for _, u := range srcsetURLs(v) {
				if abs := add(u, models.AssetImage); abs != "" {
					d.Candidates = append(d.Candidates, models.ImageCandidate{URL: abs})
				}
			}
		}
	})
	doc.FindMatcher(iconSel).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("href"); ok {
			add(v, models.AssetImage)
		}
	})
	doc.FindMatcher(metaImageSel).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("content"); ok {
			if abs := add(v, models.AssetImage); abs != "" {
				d.Candidates = append(d.Candidates, models.ImageCandidate{URL: abs})
			}
		}
	})

	doc.FindMatcher(videoSel).Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"src", "data-src"} {
			if v, ok := s.Attr(attr); ok {
				add(v, models.AssetVideo)
			}
		}
	})
	doc.FindMatcher(anchorSel).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("href"); ok && videoExtRe.MatchString(strings.ToLower(v)) {
			add(v, models.AssetVideo)
		}
	})
	doc.FindMatcher(metaVideoSel).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("content"); ok {
			if abs := resolveURL(base, v); abs != "" {
				d.VideoEmbeds = append(d.VideoEmbeds, models.VideoEmbed{Type: "meta", EmbedURL: abs})
			}
		}
	})
	doc.FindMatcher(vidyardSel).Each(func(_ int, s *goquery.Selection) {
		uuid, ok := s.Attr("data-vid-uuid")
		if !ok {
			uuid, ok = s.Attr("data-uuid")
		}
		if !ok || uuid == "" {
			return
		}
		embed := models.VideoEmbed{Type: "vidyard", EmbedURL: "https://play.vidyard.com/" + uuid}
		if thumb, ok := s.Attr("src"); ok {
			embed.ThumbURL = resolveURL(base, thumb)
		}
		d.VideoEmbeds = append(d.VideoEmbeds, embed)
	})

	doc.FindMatcher(stylesheetSel).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("href"); ok {
			add(v, models.AssetStylesheet)
		}
	})
	doc.FindMatcher(scriptSel).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("src"); ok {
			add(v, models.AssetScript)
		}
	})

	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		for _, u := range cssFontURLs(s.Text()) {
			add(u, models.AssetFont)
		}
	})
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("style"); ok {
			for _, u := range cssFontURLs(v) {
				add(u, models.AssetFont)
			}
		}
	})

	d.Records = DedupeRecords(d.Records)
	d.LogoURL = PickLogo(doc, base)
	if d.LogoURL == "" {
		d.InlineLogoSVG = pickInlineSVG(doc)
	}
	return d, nil
}

// PickLogo scores <img> elements and returns the most plausible site logo
// URL, or "" when nothing scores positively. Header and nav placement
// dominate the score; review badges and partner marks that merely contain
// "logo" in the filename are pushed down.
func PickLogo(doc *goquery.Document, base *url.URL) string {
	type scored struct {
		url   string
		score int
	}
	// A hint-free image still qualifies at score 0; only penalized ones lose.
	best := scored{score: -999}

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		abs := resolveURL(base, src)
		if abs == "" || strings.HasPrefix(abs, "data:") {
			return
		}

		score := 0
		if s.Closest("header, nav").Length() > 0 {
			score += 50
		} else if s.Closest(`a[href="/"]`).Length() > 0 {
			score += 50
		}

		hint := strings.ToLower(src + " " + s.AttrOr("alt", "") + " " + s.AttrOr("class", "") + " " + s.AttrOr("id", ""))
		host := strings.TrimPrefix(base.Hostname(), "www.")
		if brand := strings.Split(host, "."); len(brand) > 0 && brand[0] != "" && strings.Contains(hint, brand[0]) {
			score += 40
		}
		if strings.Contains(hint, "logo") {
			score += 20
		}
		for _, bad := range []string{"badge", "award", "review", "partner", "certified", "trust", "g2", "capterra"} {
			if strings.Contains(hint, bad) {
				score -= 25
			}
		}
		if u, err := url.Parse(abs); err == nil && strings.TrimPrefix(u.Hostname(), "www.") == host {
			score += 10
		}

		if score > best.score {
			best = scored{url: abs, score: score}
		}
	})

	if best.score < 0 {
		return ""
	}
	return best.url
}

// pickInlineSVG returns the outer markup of the first header/nav inline
// <svg>, for pages that render their logo without an image URL.
func pickInlineSVG(doc *goquery.Document) string {
	sel := doc.FindMatcher(inlineSVGSel).First()
	if sel.Length() == 0 {
		return ""
	}
	markup, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return markup
}

// srcsetURLs extracts the URL portion of each srcset entry.
func srcsetURLs(srcset string) []string {
	var out []string
	for _, entry := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(entry))
		if len(fields) > 0 {
			out = append(out, fields[0])
		}
	}
	return out
}

// cssFontURLs extracts font-file URLs from a CSS text fragment.
func cssFontURLs(css string) []string {
	var out []string
	for _, m := range cssURLRe.FindAllStringSubmatch(css, -1) {
		u := strings.TrimSpace(m[1])
		if fontExtRe.MatchString(strings.ToLower(u)) {
			out = append(out, u)
		}
	}
	return out
}

// resolveURL absolutizes a raw reference against the page URL, discarding
// data URIs, javascript pseudo-URLs, and anything unparseable.
func resolveURL(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "#") {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	return abs.String()
}
