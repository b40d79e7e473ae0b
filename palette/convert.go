package palette

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/webp"
)

// ConvertWebPToPNG decodes a WebP file and writes a PNG sibling next to
// it, returning the PNG path. The original file is left in place. Callers
// use this to normalize downloads for consumers that cannot read WebP.
func ConvertWebPToPNG(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open webp: %w", err)
	}
	defer f.Close()

	img, err := webp.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode webp: %w", err)
	}

	pngPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	out, err := os.Create(pngPath)
	if err != nil {
		return "", fmt.Errorf("create png: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		os.Remove(pngPath)
		return "", fmt.Errorf("encode png: %w", err)
	}
	return pngPath, nil
}
