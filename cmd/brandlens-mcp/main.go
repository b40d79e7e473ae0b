package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// extractRequest mirrors the Brandlens API request model.
type extractRequest struct {
	URL                string `json:"url"`
	MaxImages          int    `json:"max_images,omitempty"`
	SkipDownloads      bool   `json:"skip_downloads,omitempty"`
	SkipContentPreview bool   `json:"skip_content_preview,omitempty"`
}

// extractResponse mirrors the Brandlens API response model.
type extractResponse struct {
	Success  bool            `json:"success"`
	Snapshot json.RawMessage `json:"snapshot"`
	Timing   *struct {
		TotalMs      int64 `json:"total_ms"`
		NavigationMs int64 `json:"navigation_ms"`
	} `json:"timing"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// paletteRequest mirrors the Brandlens palette API request model.
type paletteRequest struct {
	URL string `json:"url"`
}

// paletteResponse mirrors the Brandlens palette API response model.
type paletteResponse struct {
	Success bool `json:"success"`
	Palette *struct {
		Swatches map[string]struct {
			Hex        string `json:"hex"`
			Population int    `json:"population"`
		} `json:"swatches"`
		RankedHex []string `json:"ranked_hex"`
	} `json:"palette"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("BRANDLENS_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("BRANDLENS_API_KEY")

	s := server.NewMCPServer(
		"brandlens",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	extractTool := mcp.NewTool("extract_brand_style",
		mcp.WithDescription("Extract the brand style profile of a web page: color palettes, typography, logo, image inventory, and contrast analysis. Uses a headless browser to render JavaScript-heavy pages."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to analyze"),
		),
		mcp.WithNumber("max_images",
			mcp.Description("Maximum number of page images to download for palette extraction (default: 8)"),
		),
		mcp.WithBoolean("skip_downloads",
			mcp.Description("Skip image downloads and derive palettes from the screenshot only"),
		),
		mcp.WithBoolean("skip_content_preview",
			mcp.Description("Skip the markdown content preview and fingerprint"),
		),
	)
	s.AddTool(extractTool, handleExtractBrandStyle(apiURL, apiKey))

	paletteTool := mcp.NewTool("get_palette",
		mcp.WithDescription("Download a single image and return its dominant-color palette as named swatches (Vibrant, Muted, and their light/dark variants)."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the image to analyze"),
		),
	)
	s.AddTool(paletteTool, handleGetPalette(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleExtractBrandStyle(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := extractRequest{
			URL:                url,
			MaxImages:          request.GetInt("max_images", 0),
			SkipDownloads:      request.GetBool("skip_downloads", false),
			SkipContentPreview: request.GetBool("skip_content_preview", false),
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/extract", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}

		var extractResp extractResponse
		if err := json.Unmarshal(respBody, &extractResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !extractResp.Success {
			errMsg := "extraction failed"
			if extractResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", extractResp.Error.Code, extractResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, extractResp.Snapshot, "", "  "); err != nil {
			return mcp.NewToolResultText(string(extractResp.Snapshot)), nil
		}
		return mcp.NewToolResultText(pretty.String()), nil
	}
}

func handleGetPalette(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/palette", paletteRequest{URL: url})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}

		var paletteResp paletteResponse
		if err := json.Unmarshal(respBody, &paletteResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !paletteResp.Success {
			errMsg := "palette extraction failed"
			if paletteResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", paletteResp.Error.Code, paletteResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		if paletteResp.Palette == nil {
			return mcp.NewToolResultText("No usable palette (image too uniform or unreadable)."), nil
		}

		var sb strings.Builder
		for name, sw := range paletteResp.Palette.Swatches {
			sb.WriteString(fmt.Sprintf("%s: %s (population %d)\n", name, sw.Hex, sw.Population))
		}
		if len(paletteResp.Palette.RankedHex) > 0 {
			sb.WriteString("Ranked: " + strings.Join(paletteResp.Palette.RankedHex, ", ") + "\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// apiPost sends a POST request to the Brandlens API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
