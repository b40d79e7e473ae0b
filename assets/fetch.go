package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tls2 "github.com/refraction-networking/utls"
	"golang.org/x/time/rate"

	"github.com/use-agent/brandlens/config"
	"github.com/use-agent/brandlens/models"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// extByContentType maps image content types to output-file extensions.
var extByContentType = map[string]string{
	"image/png":                "png",
	"image/jpeg":               "jpg",
	"image/jpg":                "jpg",
	"image/webp":               "webp",
	"image/gif":                "gif",
	"image/avif":               "avif",
	"image/x-icon":             "ico",
	"image/vnd.microsoft.icon": "ico",
}

// urlExtFallbacks are tried against the URL when the content type maps to
// no known extension.
var urlExtFallbacks = []string{"png", "jpg", "jpeg", "webp", "gif", "avif", "ico"}

// Fetcher downloads image candidates with a Chrome TLS fingerprint,
// per-origin pacing, and content-addressed output naming. Safe for
// concurrent use.
type Fetcher struct {
	cfg   config.AssetsConfig
	proxy string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewFetcher creates a Fetcher. proxy may be empty.
func NewFetcher(cfg config.AssetsConfig, proxy string) *Fetcher {
	return &Fetcher{
		cfg:      cfg,
		proxy:    proxy,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Fetch downloads one candidate into destDir. The output filename is the
// content hash of the source URL plus an extension derived from the
// response content type, so repeated runs fetching the same URL always
// produce the same name. All failures come back as OK=false results, never
// as errors: one candidate's failure must not affect the others.
func (f *Fetcher) Fetch(ctx context.Context, c models.ImageCandidate, destDir string) models.DownloadResult {
	if reason, ok := Eligible(c); !ok {
		return models.DownloadResult{URL: c.URL, OK: false, Reason: reason}
	}
	return f.FetchURL(ctx, c.URL, destDir)
}

// FetchURL downloads an arbitrary image URL into destDir, applying the
// same content-type and naming rules as Fetch but skipping candidate
// pre-screening.
func (f *Fetcher) FetchURL(ctx context.Context, rawURL, destDir string) models.DownloadResult {
	res := models.DownloadResult{URL: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		res.Reason = "unparseable URL"
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.DownloadTimeout)
	defer cancel()

	if err := f.limiter(u.Hostname()).Wait(ctx); err != nil {
		res.Reason = "timed out waiting for origin pacing"
		return res
	}

	body, contentType, status, err := f.get(ctx, rawURL)
	if err != nil {
		res.Reason = fmt.Sprintf("fetch failed: %v", err)
		return res
	}
	res.ContentType = contentType
	if status < 200 || status >= 300 {
		res.Reason = fmt.Sprintf("HTTP %d", status)
		return res
	}

	// Vector responses cannot feed raster palette extraction.
	if strings.HasPrefix(contentType, "image/svg") {
		res.Reason = ReasonNotRaster
		return res
	}
	if !strings.HasPrefix(contentType, "image/") {
		res.Reason = fmt.Sprintf("non-image content type %q", contentType)
		return res
	}

	ext := extForDownload(contentType, rawURL)
	if ext == "" {
		res.Reason = fmt.Sprintf("unsupported content type %q", contentType)
		return res
	}

	path := filepath.Join(destDir, ContentName(rawURL)+"."+ext)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		res.Reason = fmt.Sprintf("write failed: %v", err)
		return res
	}

	res.OK = true
	res.Path = path
	res.Bytes = int64(len(body))
	return res
}

// ContentName derives the content-addressed base filename for a source
// URL: a stable hash of the URL string, independent of the URL's own path.
func ContentName(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])[:16]
}

func extForDownload(contentType, rawURL string) string {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if ext, ok := extByContentType[ct]; ok {
		return ext
	}
	lower := strings.ToLower(rawURL)
	for _, ext := range urlExtFallbacks {
		if strings.Contains(lower, "."+ext) {
			if ext == "jpeg" {
				return "jpg"
			}
			return ext
		}
	}
	return ""
}

func (f *Fetcher) limiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(f.cfg.OriginRPS), 1)
		f.limiters[host] = l
	}
	return l
}

// get performs the HTTP GET with a Chrome TLS fingerprint and a capped
// body read.
func (f *Fetcher) get(ctx context.Context, targetURL string) (body []byte, contentType string, status int, err error) {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLSChrome(ctx, network, addr)
		},
	}
	if f.proxy != "" {
		if proxyURL, perr := url.Parse(f.proxy); perr == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, "", 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", 0, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes))
	if err != nil {
		return nil, "", 0, fmt.Errorf("read body: %w", err)
	}

	ct := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	return body, strings.ToLower(ct), resp.StatusCode, nil
}

// dialTLSChrome establishes a TLS connection with a Chrome fingerprint via
// utls, so image CDNs see the same client the browser presented.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls2.UClient(rawConn, &tls2.Config{
		ServerName: host,
	}, tls2.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}

// FetchAll downloads candidates sequentially, one at a time, bounding peak
// connections to the target origin and keeping failure accounting simple.
// The candidate list is truncated to maxDownloads before any network
// attempt, so a page full of dead links cannot push the fetcher past its
// budget. Every attempted candidate yields exactly one DownloadResult.
func (f *Fetcher) FetchAll(ctx context.Context, cands []models.ImageCandidate, maxDownloads int, destDir string) []models.DownloadResult {
	if maxDownloads > 0 && len(cands) > maxDownloads {
		cands = cands[:maxDownloads]
	}
	results := make([]models.DownloadResult, 0, len(cands))
	for _, c := range cands {
		r := f.Fetch(ctx, c, destDir)
		results = append(results, r)
		if !r.OK {
			slog.Debug("image download skipped or failed", "url", c.URL, "reason", r.Reason)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return results
}
