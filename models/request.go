package models

// ExtractRequest is the payload for POST /api/v1/extract.
type ExtractRequest struct {
	// URL is the target page. Required.
	URL string `json:"url" binding:"required,url"`

	// Timeout is the max duration in seconds for the whole run.
	// Default: 90. Max: 180.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=180"`

	// Stealth enables anti-bot-detection evasions. Default: true.
	Stealth *bool `json:"stealth,omitempty"`

	// MaxImages overrides how many image candidates are downloaded.
	MaxImages int `json:"max_images,omitempty" binding:"omitempty,min=0,max=40"`

	// SkipDownloads disables image acquisition (screenshot palette and
	// style statistics are still computed).
	SkipDownloads bool `json:"skip_downloads,omitempty"`

	// SkipContentPreview disables the readability/markdown content pass.
	SkipContentPreview bool `json:"skip_content_preview,omitempty"`

	// MaxAge enables cache lookup: serve a cached snapshot younger than
	// this many milliseconds instead of re-running the pipeline.
	MaxAge int `json:"max_age_ms,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *ExtractRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 90
	}
	if r.Stealth == nil {
		t := true
		r.Stealth = &t
	}
}

// PaletteRequest is the payload for POST /api/v1/palette: fetch a single
// image URL and return its dominant-color palette.
type PaletteRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// BatchRequest is the payload for POST /api/v1/batch/extract.
type BatchRequest struct {
	URLs    []string       `json:"urls" binding:"required,min=1"`
	Options ExtractRequest `json:"options,omitempty"`

	// WebhookURL, if set, receives a signed batch.completed event.
	WebhookURL    string `json:"webhook_url,omitempty" binding:"omitempty,url"`
	WebhookSecret string `json:"webhook_secret,omitempty"`
}
