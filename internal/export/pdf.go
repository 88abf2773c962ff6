package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"

	"github.com/go-pdf/fpdf"

	"storystudio/models"
)

// A4 portrait geometry in millimeters.
const (
	pageWidth   = 210.0
	pageHeight  = 297.0
	pageMargin  = 15.0
	usableWidth = pageWidth - 2*pageMargin
	// Images may take at most half the page height, leaving room for the
	// heading above and narration below.
	maxImageHeight = pageHeight/2 - 18
)

// BuildPDF renders the storyboard as an A4 portrait document, one page per
// scene: heading, the scene image fit to at most half the page height with
// aspect preserved, then the word-wrapped narration.
func BuildPDF(scenes []models.Scene) ([]byte, error) {
	doc, err := buildPDFDoc(scenes)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func buildPDFDoc(scenes []models.Scene) (*fpdf.Fpdf, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Storyboard", true)
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	for i, scene := range scenes {
		doc.AddPage()

		doc.SetFont("Helvetica", "B", 16)
		doc.CellFormat(0, 10, fmt.Sprintf("Scene %d", i+1), "", 1, "L", false, 0, "")
		doc.Ln(2)

		raw, err := base64.StdEncoding.DecodeString(scene.ImageB64)
		if err != nil {
			return nil, fmt.Errorf("pdf scene %d image: %w", i+1, err)
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("pdf scene %d image: %w", i+1, err)
		}

		name := fmt.Sprintf("scene_%d", i+1)
		opts := fpdf.ImageOptions{ImageType: "JPEG"}
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))

		w, h := fitImage(cfg.Width, cfg.Height, usableWidth, maxImageHeight)
		x := (pageWidth - w) / 2
		doc.ImageOptions(name, x, doc.GetY(), w, h, false, opts, 0, "")
		doc.SetY(doc.GetY() + h + 6)

		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 6, tr(scene.NarrationText), "", "L", false)
	}

	if doc.Err() {
		return nil, fmt.Errorf("pdf assembly: %v", doc.Error())
	}
	return doc, nil
}

// fitImage scales (w, h) to fit inside (maxW, maxH) preserving aspect ratio.
func fitImage(w, h int, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := maxW / float64(w)
	if s := maxH / float64(h); s < scale {
		scale = s
	}
	return float64(w) * scale, float64(h) * scale
}
