package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/use-agent/brandlens/config"
	"github.com/use-agent/brandlens/models"
)

func testFetcher() *Fetcher {
	return NewFetcher(config.AssetsConfig{
		MaxCandidates:   40,
		MaxDownloads:    8,
		DownloadTimeout: 5 * time.Second,
		MaxBodyBytes:    15 * 1024 * 1024,
		OriginRPS:       100, // keep tests fast
	}, "")
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFetchURL(t *testing.T) {
	body := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(body)
		case "/vector":
			w.Header().Set("Content-Type", "image/svg+xml")
			w.Write([]byte("<svg/>"))
		case "/page":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := testFetcher()
	dir := t.TempDir()

	t.Run("image ok", func(t *testing.T) {
		res := f.FetchURL(context.Background(), srv.URL+"/ok.png", dir)
		if !res.OK {
			t.Fatalf("not OK: %s", res.Reason)
		}
		if res.ContentType != "image/png" {
			t.Errorf("content type = %q", res.ContentType)
		}
		if !strings.HasSuffix(res.Path, ".png") {
			t.Errorf("path = %q, want .png suffix", res.Path)
		}
		if res.Bytes != int64(len(body)) {
			t.Errorf("bytes = %d, want %d", res.Bytes, len(body))
		}
	})

	t.Run("svg content type rejected after fetch", func(t *testing.T) {
		res := f.FetchURL(context.Background(), srv.URL+"/vector", dir)
		if res.OK {
			t.Fatal("expected skip")
		}
		if res.Reason != ReasonNotRaster {
			t.Errorf("reason = %q, want %q", res.Reason, ReasonNotRaster)
		}
	})

	t.Run("non-image content type", func(t *testing.T) {
		res := f.FetchURL(context.Background(), srv.URL+"/page", dir)
		if res.OK || !strings.Contains(res.Reason, "content type") {
			t.Errorf("got %+v", res)
		}
	})

	t.Run("http error status", func(t *testing.T) {
		res := f.FetchURL(context.Background(), srv.URL+"/missing.png", dir)
		if res.OK || !strings.Contains(res.Reason, "404") {
			t.Errorf("got %+v", res)
		}
	})

	t.Run("unparseable url", func(t *testing.T) {
		res := f.FetchURL(context.Background(), "not a url", dir)
		if res.OK {
			t.Fatal("expected failure")
		}
	})
}

func TestFetchPreScreens(t *testing.T) {
	f := testFetcher()
	res := f.Fetch(context.Background(), models.ImageCandidate{
		URL: "data:image/png;base64,iVBOR", Width: 500, Height: 500,
	}, t.TempDir())
	if res.OK || res.Reason != ReasonDataURI {
		t.Errorf("got %+v", res)
	}
}

func TestFetchAllRespectsDownloadCap(t *testing.T) {
	body := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	var cands []models.ImageCandidate
	for i := 0; i < 5; i++ {
		cands = append(cands, models.ImageCandidate{
			URL:   srv.URL + "/img" + string(rune('a'+i)) + ".png",
			Width: 500, Height: 500, NaturalArea: 250_000,
		})
	}
	results := testFetcher().FetchAll(context.Background(), cands, 2, t.TempDir())
	if len(results) != 2 {
		t.Fatalf("attempted %d candidates, want 2", len(results))
	}
	for _, r := range results {
		if !r.OK {
			t.Errorf("download failed: %s", r.Reason)
		}
	}
}

func TestFetchAllCapsAttemptsNotSuccesses(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	var cands []models.ImageCandidate
	for i := 0; i < 40; i++ {
		cands = append(cands, models.ImageCandidate{
			URL:   fmt.Sprintf("%s/img%d.png", srv.URL, i),
			Width: 500, Height: 500, NaturalArea: 250_000,
		})
	}
	results := testFetcher().FetchAll(context.Background(), cands, 8, t.TempDir())
	if len(results) != 8 {
		t.Errorf("got %d results, want 8", len(results))
	}
	if got := attempts.Load(); got != 8 {
		t.Errorf("server saw %d requests, want 8", got)
	}
	for _, r := range results {
		if r.OK {
			t.Errorf("unexpected success for %s", r.URL)
		}
	}
}

func TestContentNameStable(t *testing.T) {
	a := ContentName("https://a.com/hero.png")
	b := ContentName("https://a.com/hero.png")
	c := ContentName("https://a.com/other.png")
	if a != b {
		t.Error("same URL produced different names")
	}
	if a == c {
		t.Error("different URLs collided")
	}
	if len(a) != 16 {
		t.Errorf("name length = %d, want 16", len(a))
	}
}

func TestExtForDownload(t *testing.T) {
	tests := []struct {
		contentType string
		url         string
		want        string
	}{
		{"image/png", "https://a.com/x", "png"},
		{"image/jpeg", "https://a.com/x", "jpg"},
		{"image/webp; charset=binary", "https://a.com/x", "webp"},
		{"image/x-icon", "https://a.com/favicon", "ico"},
		{"image/unknown", "https://a.com/photo.JPEG?w=200", "jpg"},
		{"image/unknown", "https://a.com/photo.webp", "webp"},
		{"image/unknown", "https://a.com/photo", ""},
	}
	for _, tt := range tests {
		if got := extForDownload(tt.contentType, tt.url); got != tt.want {
			t.Errorf("extForDownload(%q, %q) = %q, want %q", tt.contentType, tt.url, got, tt.want)
		}
	}
}
