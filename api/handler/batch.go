package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/brandlens/models"
	"github.com/use-agent/brandlens/scraper"
	"github.com/use-agent/brandlens/webhook"
)

// batchStore holds all in-flight and completed batch jobs.
var batchStore sync.Map

// batchJob pairs a job record with the lock that serializes worker writes
// against status reads. ID, Total and CreatedAt are immutable after
// creation; everything else goes through the locked methods.
type batchJob struct {
	mu  sync.Mutex
	job models.BatchJob
}

func (b *batchJob) setResult(idx int, resp *models.ExtractResponse, done int) {
	b.mu.Lock()
	b.job.Results[idx] = resp
	b.job.Completed = done
	b.mu.Unlock()
}

func (b *batchJob) finish(status string, done int) {
	b.mu.Lock()
	b.job.Status = status
	b.job.Completed = done
	b.mu.Unlock()
}

// snapshot returns a consistent copy safe to serialize while workers are
// still writing.
func (b *batchJob) snapshot() models.BatchStatusResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	results := make([]*models.ExtractResponse, len(b.job.Results))
	copy(results, b.job.Results)
	return models.BatchStatusResponse{
		ID:        b.job.ID,
		Status:    b.job.Status,
		Completed: b.job.Completed,
		Total:     b.job.Total,
		Results:   results,
	}
}

func init() {
	// Background goroutine to expire batch jobs older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			batchStore.Range(func(key, value any) bool {
				if value.(*batchJob).job.CreatedAt < cutoff {
					batchStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// PostBatch returns a handler for POST /api/v1/batch/extract.
// It validates the request, creates a batch job, and launches goroutines
// to extract each URL concurrently.
func PostBatch(sc *scraper.Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		if len(req.URLs) > 50 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "maximum 50 URLs per batch",
				},
			})
			return
		}

		jobID := "batch-" + randomID()
		job := &batchJob{job: models.BatchJob{
			ID:        jobID,
			Status:    "processing",
			Total:     len(req.URLs),
			Results:   make([]*models.ExtractResponse, len(req.URLs)),
			CreatedAt: time.Now().Unix(),
		}}
		batchStore.Store(jobID, job)

		go runBatch(sc, job, req)

		c.JSON(http.StatusOK, models.BatchResponse{
			ID:     jobID,
			Status: "processing",
			Total:  len(req.URLs),
		})
	}
}

// GetBatch returns a handler for GET /api/v1/batch/:id.
func GetBatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		val, ok := batchStore.Load(jobID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "batch job not found",
				},
			})
			return
		}

		c.JSON(http.StatusOK, val.(*batchJob).snapshot())
	}
}

// runBatch processes all URLs with concurrency bounded to the page pool,
// then fires the completion webhook if one was requested.
func runBatch(sc *scraper.Scraper, job *batchJob, req models.BatchRequest) {
	maxConcurrent := sc.MaxPages()
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	sem := make(chan struct{}, maxConcurrent)

	var wg sync.WaitGroup
	var completed atomic.Int32
	var failed atomic.Int32

	for i, rawURL := range req.URLs {
		wg.Add(1)
		go func(idx int, targetURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			resp := extractOne(sc, targetURL, req.Options)
			if resp.Success {
				completed.Add(1)
			} else {
				failed.Add(1)
			}
			job.setResult(idx, resp, int(completed.Load())+int(failed.Load()))
		}(i, rawURL)
	}

	wg.Wait()

	failedCount := int(failed.Load())
	completedCount := int(completed.Load())

	var status string
	switch {
	case failedCount == job.job.Total:
		status = "failed"
	case failedCount > 0:
		status = "partial"
	default:
		status = "completed"
	}
	job.finish(status, completedCount+failedCount)

	slog.Info("batch job finished",
		"id", job.job.ID,
		"status", status,
		"completed", completedCount,
		"failed", failedCount,
		"total", job.job.Total,
	)

	if req.WebhookURL != "" {
		webhook.DeliverAsync(req.WebhookURL, req.WebhookSecret, &webhook.Event{
			Type:      "batch.completed",
			JobID:     job.job.ID,
			Timestamp: time.Now().Unix(),
			Data:      job.snapshot(),
		})
	}
}

// extractOne runs a single extraction for one URL using shared batch
// options.
func extractOne(sc *scraper.Scraper, targetURL string, opts models.ExtractRequest) *models.ExtractResponse {
	totalStart := time.Now()

	ereq := &models.ExtractRequest{
		URL:                targetURL,
		Timeout:            opts.Timeout,
		Stealth:            opts.Stealth,
		MaxImages:          opts.MaxImages,
		SkipDownloads:      opts.SkipDownloads,
		SkipContentPreview: opts.SkipContentPreview,
	}
	ereq.Defaults()

	result, err := sc.Extract(context.Background(), ereq)
	if err != nil {
		extractErr, ok := err.(*models.ExtractError)
		if !ok {
			extractErr = models.NewExtractError(models.ErrCodeInternal, err.Error(), err)
		}
		return &models.ExtractResponse{
			Success: false,
			Error:   extractErr.ToDetail(),
			Timing: models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
			},
		}
	}

	return &models.ExtractResponse{
		Success:  true,
		Snapshot: result.Snapshot,
		Timing:   result.Timing,
	}
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
