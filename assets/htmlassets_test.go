package assets

import (
	"strings"
	"testing"

	"github.com/use-agent/brandlens/models"
)

const sampleHTML = `<!doctype html>
<html>
<head>
  <link rel="icon" href="/favicon.ico">
  <link rel="stylesheet" href="/css/site.css">
  <meta property="og:image" content="https://cdn.acme.com/social.png">
  <meta property="og:video" content="https://player.acme.com/v/123">
  <style>@font-face { font-family: Brand; src: url("/fonts/brand.woff2") format("woff2"); }</style>
  <script src="/js/app.js"></script>
</head>
<body>
  <header><a href="/"><img src="/img/acme-logo.png" alt="Acme home"></a></header>
  <img src="/img/hero.jpg" srcset="/img/hero-800.jpg 800w, /img/hero-1600.jpg 1600w">
  <img data-src="/img/lazy-feature.png">
  <img src="/img/g2-badge.png" alt="G2 leader badge logo">
  <video src="/media/intro.mp4"></video>
  <a href="/media/demo.webm?quality=hd">Watch the demo</a>
  <img class="vidyard-player-embed" data-uuid="abc-123" src="https://play.vidyard.com/abc-123.jpg">
</body>
</html>`

func TestDiscoverFromHTML(t *testing.T) {
	d, err := DiscoverFromHTML(sampleHTML, "https://www.acme.com/pricing")
	if err != nil {
		t.Fatal(err)
	}

	byKind := make(map[models.AssetKind][]string)
	for _, r := range d.Records {
		byKind[r.Kind] = append(byKind[r.Kind], r.URL)
	}

	wantImages := []string{
		"https://www.acme.com/img/acme-logo.png",
		"https://www.acme.com/img/hero.jpg",
		"https://www.acme.com/img/hero-800.jpg",
		"https://www.acme.com/img/hero-1600.jpg",
		"https://www.acme.com/img/lazy-feature.png",
		"https://www.acme.com/favicon.ico",
		"https://cdn.acme.com/social.png",
	}
	for _, w := range wantImages {
		if !contains(byKind[models.AssetImage], w) {
			t.Errorf("missing image record %s", w)
		}
	}
	if !contains(byKind[models.AssetStylesheet], "https://www.acme.com/css/site.css") {
		t.Error("missing stylesheet record")
	}
	if !contains(byKind[models.AssetScript], "https://www.acme.com/js/app.js") {
		t.Error("missing script record")
	}
	if !contains(byKind[models.AssetFont], "https://www.acme.com/fonts/brand.woff2") {
		t.Error("missing font record")
	}
	if !contains(byKind[models.AssetVideo], "https://www.acme.com/media/intro.mp4") {
		t.Error("missing video record")
	}
	if !contains(byKind[models.AssetVideo], "https://www.acme.com/media/demo.webm?quality=hd") {
		t.Error("missing anchor video record")
	}

	var sawVidyard, sawMeta bool
	for _, e := range d.VideoEmbeds {
		switch e.Type {
		case "vidyard":
			sawVidyard = true
			if e.EmbedURL != "https://play.vidyard.com/abc-123" {
				t.Errorf("vidyard embed url = %s", e.EmbedURL)
			}
		case "meta":
			sawMeta = true
		}
	}
	if !sawVidyard || !sawMeta {
		t.Errorf("embeds missing: vidyard=%v meta=%v", sawVidyard, sawMeta)
	}

	if d.LogoURL != "https://www.acme.com/img/acme-logo.png" {
		t.Errorf("logo = %s", d.LogoURL)
	}
}

func TestDiscoverFromHTMLSkipsDataURIs(t *testing.T) {
	d, err := DiscoverFromHTML(`<img src="data:image/gif;base64,R0lGOD"><img src="/real.png">`, "https://a.com/")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range d.Records {
		if strings.HasPrefix(r.URL, "data:") {
			t.Errorf("data URI leaked: %s", r.URL)
		}
	}
	if len(d.Candidates) != 1 {
		t.Errorf("got %d candidates, want 1", len(d.Candidates))
	}
}

func TestPickLogoPrefersHeaderOverBadge(t *testing.T) {
	html := `<html><body>
	  <header><img src="/brand/mark.png" alt="Company"></header>
	  <footer><img src="/badges/award-logo.png" alt="award logo"></footer>
	</body></html>`
	d, err := DiscoverFromHTML(html, "https://company.io/")
	if err != nil {
		t.Fatal(err)
	}
	if d.LogoURL != "https://company.io/brand/mark.png" {
		t.Errorf("logo = %s", d.LogoURL)
	}
}

func TestPickLogoAcceptsBareImage(t *testing.T) {
	// No placement, no name hints, foreign CDN host: score stays at zero,
	// but a zero-score image is still a better guess than nothing.
	html := `<html><body><main><img src="https://cdn.example.net/m/4f2a.png"></main></body></html>`
	d, err := DiscoverFromHTML(html, "https://company.io/")
	if err != nil {
		t.Fatal(err)
	}
	if d.LogoURL != "https://cdn.example.net/m/4f2a.png" {
		t.Errorf("logo = %s", d.LogoURL)
	}
}

func TestPickLogoRejectsPenalizedOnly(t *testing.T) {
	html := `<html><body><img src="https://cdn.example.net/g2-badge.png" alt="review badge"></body></html>`
	d, err := DiscoverFromHTML(html, "https://company.io/")
	if err != nil {
		t.Fatal(err)
	}
	if d.LogoURL != "" {
		t.Errorf("penalized image picked as logo: %s", d.LogoURL)
	}
}

func TestInlineSVGLogoFallback(t *testing.T) {
	html := `<html><body><header><svg viewBox="0 0 10 10"><path d="M0 0h10v10z"/></svg></header></body></html>`
	d, err := DiscoverFromHTML(html, "https://svgbrand.dev/")
	if err != nil {
		t.Fatal(err)
	}
	if d.LogoURL != "" {
		t.Errorf("unexpected logo url %s", d.LogoURL)
	}
	if !strings.Contains(d.InlineLogoSVG, "<svg") {
		t.Errorf("inline svg not captured: %q", d.InlineLogoSVG)
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
