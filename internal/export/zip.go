package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"

	"storystudio/models"
)

// BuildZip assembles the storyboard archive fully in memory: one script text
// file enumerating every scene's narration, plus each scene's JPEG as a
// 1-indexed binary entry.
func BuildZip(scenes []models.Scene) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var script bytes.Buffer
	for i, scene := range scenes {
		fmt.Fprintf(&script, "Scene %d\n%s\n\n", i+1, scene.NarrationText)
	}

	w, err := zw.Create("storyboard_script.txt")
	if err != nil {
		return nil, fmt.Errorf("zip script entry: %w", err)
	}
	if _, err := w.Write(script.Bytes()); err != nil {
		return nil, fmt.Errorf("zip script entry: %w", err)
	}

	for i, scene := range scenes {
		raw, err := base64.StdEncoding.DecodeString(scene.ImageB64)
		if err != nil {
			return nil, fmt.Errorf("zip scene %d image: %w", i+1, err)
		}
		w, err := zw.Create(fmt.Sprintf("scene_%d.jpeg", i+1))
		if err != nil {
			return nil, fmt.Errorf("zip scene %d entry: %w", i+1, err)
		}
		if _, err := w.Write(raw); err != nil {
			return nil, fmt.Errorf("zip scene %d entry: %w", i+1, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}
