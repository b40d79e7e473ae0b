// Package content builds the textual side of a snapshot: a markdown
// preview of the page's main content and the plain text that feeds the
// content fingerprint.
package content

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to be considered valid. Below it we assume the
// algorithm failed and fall back to raw HTML.
const minContentLength = 50

// maxPreviewRunes caps the markdown preview stored in a snapshot. The
// preview is brand-voice context, not an archival copy.
const maxPreviewRunes = 4000

// Previewer converts page HTML into a markdown content preview. The
// underlying converter is goroutine-safe; build one and share it.
type Previewer struct {
	conv *converter.Converter
}

func NewPreviewer() *Previewer {
	return &Previewer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Preview extracts the page's main content and renders it as truncated
// markdown. It also returns the extracted plain text for fingerprinting.
// Never fails: on any extraction problem it degrades to raw HTML input.
func (p *Previewer) Preview(rawHTML, sourceURL string) (markdown, plainText string) {
	article, ok := extractArticle(rawHTML, sourceURL)
	plainText = strings.TrimSpace(article.TextContent)

	html := article.Content
	if !ok && html == "" {
		html = rawHTML
	}

	domain := ""
	if u, err := nurl.Parse(sourceURL); err == nil {
		domain = u.Scheme + "://" + u.Host
	}
	md, err := p.conv.ConvertString(html, converter.WithDomain(domain))
	if err != nil {
		slog.Warn("markdown conversion failed, preview omitted", "url", sourceURL, "error", err)
		return "", plainText
	}
	return truncateRunes(strings.TrimSpace(md), maxPreviewRunes), plainText
}

// extractArticle runs the Mozilla Readability algorithm on rawHTML,
// falling back to the raw input when the URL is unparseable, extraction
// fails, or the result is too short to be the page's real content.
func extractArticle(rawHTML, sourceURL string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		return fallbackArticle(rawHTML), false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability extraction failed, using raw HTML", "url", sourceURL, "error", err)
		return fallbackArticle(rawHTML), false
	}
	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		return fallbackArticle(rawHTML), false
	}
	return article, true
}

func fallbackArticle(rawHTML string) readability.Article {
	return readability.Article{Content: rawHTML, TextContent: rawHTML}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "\n\n…"
}
