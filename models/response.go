package models

// ExtractResponse is the response for POST /api/v1/extract.
type ExtractResponse struct {
	// Success indicates whether the extraction completed.
	Success bool `json:"success"`

	// Snapshot is the assembled brand style profile. Nil on failure.
	Snapshot *BrandStyleSnapshot `json:"snapshot,omitempty"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// PaletteResponse is the response for POST /api/v1/palette.
type PaletteResponse struct {
	Success  bool            `json:"success"`
	Palette  *Palette        `json:"palette,omitempty"`
	Download *DownloadResult `json:"download,omitempty"`
	Error    *ErrorDetail    `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// NavigationMs covers navigation, settling, and verification.
	NavigationMs int64 `json:"navigation_ms"`

	// AssetsMs covers discovery, downloads, and palette extraction.
	AssetsMs int64 `json:"assets_ms"`

	// StylesMs covers style sampling, reduction, and contrast analysis.
	StylesMs int64 `json:"styles_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}

// BatchJob tracks an in-flight or completed batch extraction.
type BatchJob struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"` // "processing", "completed"
	Total     int                `json:"total"`
	Completed int                `json:"completed"`
	Results   []*ExtractResponse `json:"results"`
	CreatedAt int64              `json:"created_at"`
}

// BatchResponse acknowledges batch creation.
type BatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// BatchStatusResponse reports batch progress and results.
type BatchStatusResponse struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	Completed int                `json:"completed"`
	Total     int                `json:"total"`
	Results   []*ExtractResponse `json:"results"`
}
