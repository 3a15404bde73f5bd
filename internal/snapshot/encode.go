package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// FormatFromPath picks an encoder from the file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "webp", "png", "tga":
		return ext, nil
	}
	return "", fmt.Errorf("snapshot: unsupported image extension %q", filepath.Ext(path))
}

// Encode writes img as webp (lossless), png or tga.
func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case "webp":
		err = nativewebp.Encode(w, img, nil)
	case "png":
		err = png.Encode(w, img)
	case "tga":
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("snapshot: unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("snapshot: %s encode: %w", format, err)
	}
	return nil
}

// Save encodes img to path, creating parent directories.
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
