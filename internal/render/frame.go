package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// ErrRender marks a scene image that could not be loaded or drawn.
var ErrRender = errors.New("frame render failed")

const (
	subtitleWidthRatio = 0.9  // wrapped text spans at most 90% of canvas width
	subtitleBottomPad  = 40.0 // gap between plate and the bottom edge
	platePadding       = 16.0
	lineSpacing        = 1.5
)

// Renderer draws storyboard frames at a fixed canvas size. Rendering is a
// pure function of (image, theme, subtitle); no state survives between
// frames. A Renderer holds a font face and is not safe for concurrent use,
// so each export owns its own.
type Renderer struct {
	width    int
	height   int
	fontSize float64
	face     font.Face
}

// NewRenderer builds a renderer for the given canvas dimensions. The
// subtitle font scales with canvas width and never drops below 20px.
func NewRenderer(width, height int) (*Renderer, error) {
	size := float64(width) / 40.0
	if size < 20 {
		size = 20
	}

	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse subtitle font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build subtitle face: %w", err)
	}

	return &Renderer{width: width, height: height, fontSize: size, face: face}, nil
}

// Render produces one frame: the image cover-cropped to fill the canvas, the
// theme applied, and (when subtitle is non-empty) a word-wrapped subtitle
// block bottom-anchored over a plate.
func (r *Renderer) Render(img image.Image, theme Theme, subtitle string) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, r.width, r.height))

	crop := CoverCrop(img.Bounds(), r.width, r.height)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)

	if theme.Monochrome {
		desaturate(dst)
	}

	dc := gg.NewContextForRGBA(dst)

	if theme.Overlay.A > 0 {
		dc.SetColor(theme.Overlay)
		dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
		dc.Fill()
	}

	if subtitle != "" {
		r.drawSubtitles(dc, theme, subtitle)
	}

	return dst
}

// CoverCrop computes the source rectangle that fills a width×height canvas
// without distortion: the wider dimension is center-cropped away.
func CoverCrop(src image.Rectangle, width, height int) image.Rectangle {
	srcW := src.Dx()
	srcH := src.Dy()
	srcAspect := float64(srcW) / float64(srcH)
	dstAspect := float64(width) / float64(height)

	cropW, cropH := srcW, srcH
	if srcAspect > dstAspect {
		cropW = int(float64(srcH) * dstAspect)
	} else {
		cropH = int(float64(srcW) / dstAspect)
	}

	x0 := src.Min.X + (srcW-cropW)/2
	y0 := src.Min.Y + (srcH-cropH)/2
	return image.Rect(x0, y0, x0+cropW, y0+cropH)
}

func (r *Renderer) drawSubtitles(dc *gg.Context, theme Theme, text string) {
	dc.SetFontFace(r.face)

	maxWidth := float64(r.width) * subtitleWidthRatio
	lines := dc.WordWrap(text, maxWidth)
	if len(lines) == 0 {
		return
	}

	lineHeight := r.fontSize * lineSpacing
	blockHeight := float64(len(lines))*lineHeight + platePadding
	plateTop := float64(r.height) - subtitleBottomPad - blockHeight
	plateLeft := (float64(r.width) - maxWidth) / 2

	dc.SetColor(theme.Plate)
	dc.DrawRectangle(plateLeft-platePadding, plateTop, maxWidth+2*platePadding, blockHeight)
	dc.Fill()

	dc.SetColor(theme.Text)
	for i, line := range lines {
		y := plateTop + platePadding/2 + (float64(i)+0.5)*lineHeight
		dc.DrawStringAnchored(line, float64(r.width)/2, y, 0.5, 0.5)
	}
}

// desaturate converts the frame to luminance in place (Rec. 601 weights).
func desaturate(img *image.RGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		gray := uint8((299*int(pix[i]) + 587*int(pix[i+1]) + 114*int(pix[i+2])) / 1000)
		pix[i] = gray
		pix[i+1] = gray
		pix[i+2] = gray
	}
}
