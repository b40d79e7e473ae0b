package scraper

import "github.com/use-agent/brandlens/models"

// ExtractResult bundles the snapshot with phase timings. The API layer
// copies both into the response envelope.
type ExtractResult struct {
	Snapshot *models.BrandStyleSnapshot
	Timing   models.TimingInfo
}
