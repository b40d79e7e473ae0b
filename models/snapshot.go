package models

import "time"

// Swatch is one dominant-color bucket from the palette algorithm.
// Population is a relative pixel-count weight, only meaningful for ranking
// within a single extraction.
type Swatch struct {
	Hex        string `json:"hex"` // canonical "#RRGGBB"
	RGB        [3]int `json:"rgb"`
	Population int    `json:"population"`
}

// Palette maps the fixed swatch vocabulary to the swatches found in one
// image. Absent swatches are simply omitted, never synthesized. RankedHex
// orders the present swatches' hex values by descending population; ties
// break by the fixed name order of SwatchNames.
type Palette struct {
	Swatches  map[string]Swatch `json:"swatches"`
	RankedHex []string          `json:"ranked_hex"`
}

// SwatchNames is the fixed swatch vocabulary, in tiebreak priority order.
var SwatchNames = []string{
	"Vibrant", "DarkVibrant", "LightVibrant",
	"Muted", "DarkMuted", "LightMuted",
}

// AssetKind classifies a discovered asset URL.
type AssetKind string

const (
	AssetImage      AssetKind = "image"
	AssetVideo      AssetKind = "video"
	AssetStylesheet AssetKind = "stylesheet"
	AssetScript     AssetKind = "script"
	AssetFont       AssetKind = "font"
	AssetOther      AssetKind = "other"
)

// AssetRecord is one discovered asset. URL is absolute; records are
// deduplicated by exact string equality after absolutization.
type AssetRecord struct {
	URL  string    `json:"url"`
	Kind AssetKind `json:"kind"`
}

// ImageCandidate is a downloadable image ranked by on-screen rendered area
// first and natural pixel area second. Used only for download selection.
type ImageCandidate struct {
	URL          string `json:"url"`
	OnScreenArea int    `json:"on_screen_area"`
	NaturalArea  int    `json:"natural_area"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// DownloadResult records the outcome of one image acquisition attempt.
// OK=false is a normal outcome (skipped, non-image, HTTP error, timeout),
// not an exceptional one.
type DownloadResult struct {
	URL         string `json:"url"`
	OK          bool   `json:"ok"`
	Path        string `json:"path,omitempty"`
	Reason      string `json:"reason,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Bytes       int64  `json:"bytes,omitempty"`
}

// ContrastCheck is one WCAG contrast evaluation of a foreground/background
// pair. Ratio is symmetric under fg/bg swap.
type ContrastCheck struct {
	FG        string  `json:"fg"`
	BG        string  `json:"bg"`
	Ratio     float64 `json:"ratio"`
	PassesAA  bool    `json:"passes_aa"`  // ratio >= 4.5
	PassesAAA bool    `json:"passes_aaa"` // ratio >= 7.0
}

// VideoEmbed is a hosted-player reference (vidyard, meta og:video players)
// kept as inventory; embeds are never downloaded.
type VideoEmbed struct {
	Type     string `json:"type"`
	EmbedURL string `json:"embed_url,omitempty"`
	ThumbURL string `json:"thumb_url,omitempty"`
}

// PageMeta is page-level information for the snapshot.
type PageMeta struct {
	URL      string `json:"url"`
	FinalURL string `json:"final_url"`
	Host     string `json:"host"`
	Title    string `json:"title,omitempty"`
	H1       string `json:"h1,omitempty"`

	Description string `json:"description,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
	Language    string `json:"language,omitempty"`

	ScrapedAt time.Time `json:"scraped_at"`

	// ContentPreview is a markdown rendition of the page's main content,
	// useful alongside the visual profile for brand-voice review.
	ContentPreview string `json:"content_preview,omitempty"`

	// ContentFingerprint is a simhash of the page's visible text so repeat
	// runs can detect content drift without diffing HTML.
	ContentFingerprint uint64 `json:"content_fingerprint,omitempty"`

	ScreenshotPath string `json:"screenshot_path,omitempty"`
	HTMLPath       string `json:"html_path,omitempty"`
}

// AssetInventory groups every discovered asset by kind, plus derived
// brand-specific picks (logo) and the image URLs classified as tracking
// beacons rather than visual content.
type AssetInventory struct {
	Images      []AssetRecord `json:"images"`
	Videos      []AssetRecord `json:"videos"`
	Stylesheets []AssetRecord `json:"stylesheets"`
	Scripts     []AssetRecord `json:"scripts"`
	Fonts       []AssetRecord `json:"fonts"`
	Other       []AssetRecord `json:"other,omitempty"`

	TrackingPixels []string     `json:"tracking_pixels,omitempty"`
	VideoEmbeds    []VideoEmbed `json:"video_embeds,omitempty"`

	LogoURL  string `json:"logo_url,omitempty"`
	LogoPath string `json:"logo_path,omitempty"`

	// LogoInlineSVGPath is set when the page's primary logo is an inline
	// <svg> captured to disk (raster palette extraction cannot consume it).
	LogoInlineSVGPath string `json:"logo_inline_svg_path,omitempty"`
}

// PaletteSet groups the palettes extracted during one run.
type PaletteSet struct {
	FromScreenshot *Palette            `json:"from_screenshot,omitempty"`
	FromLogo       *Palette            `json:"from_logo,omitempty"`
	FromImages     map[string]*Palette `json:"from_images"`
}

// StyleStats is the frequency-ranked reduction of sampled computed styles.
// Color lists are canonical hex, descending-frequency order, deduplicated.
type StyleStats struct {
	BackgroundColors []string `json:"background_colors"`
	TextColors       []string `json:"text_colors"`
	BorderColors     []string `json:"border_colors"`
	LinkColors       []string `json:"link_colors"`

	FontFamilies []string `json:"font_families"`
	FontSizes    []string `json:"font_sizes"`
	FontWeights  []string `json:"font_weights"`
	LineHeights  []string `json:"line_heights"`

	// AccentCandidates is the union of link colors, top screenshot-palette
	// values, and top text colors, filtered to chromatic colors.
	AccentCandidates []string `json:"accent_candidates"`

	SampledElements int `json:"sampled_elements"`
}

// BrandStyleSnapshot is the terminal aggregate of one extraction run.
// Immutable once assembled; one snapshot per run.
type BrandStyleSnapshot struct {
	Meta      PageMeta         `json:"meta"`
	Assets    AssetInventory   `json:"assets"`
	Palettes  PaletteSet       `json:"palettes"`
	Styles    StyleStats       `json:"styles"`
	Contrast  []ContrastCheck  `json:"contrast"`
	Downloads []DownloadResult `json:"downloads"`

	// Notes records non-fatal degradations (empty candidate set, palette
	// failures, fallback discovery) so partial output is explainable.
	Notes []string `json:"notes,omitempty"`
}
