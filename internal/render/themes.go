package render

import (
	"image/color"

	"storystudio/models"
)

// Theme is the palette applied uniformly to every frame of an export: a
// full-frame overlay wash, the subtitle text color, and the plate painted
// behind the subtitle block. Monochrome themes desaturate the frame before
// the overlay pass.
type Theme struct {
	Name       models.VideoTheme
	Overlay    color.NRGBA // alpha carries the overlay opacity
	Text       color.NRGBA
	Plate      color.NRGBA
	Monochrome bool
}

var themes = map[models.VideoTheme]Theme{
	models.ThemeDefault: {
		Name:    models.ThemeDefault,
		Overlay: color.NRGBA{0, 0, 0, 0},
		Text:    color.NRGBA{255, 255, 255, 255},
		Plate:   color.NRGBA{0, 0, 0, 153},
	},
	models.ThemeCorporateBlue: {
		Name:    models.ThemeCorporateBlue,
		Overlay: color.NRGBA{13, 59, 102, 64},
		Text:    color.NRGBA{240, 248, 255, 255},
		Plate:   color.NRGBA{13, 59, 102, 178},
	},
	models.ThemeVibrantSunset: {
		Name:    models.ThemeVibrantSunset,
		Overlay: color.NRGBA{255, 94, 58, 51},
		Text:    color.NRGBA{255, 244, 214, 255},
		Plate:   color.NRGBA{61, 26, 13, 178},
	},
	models.ThemeMonochrome: {
		Name:       models.ThemeMonochrome,
		Overlay:    color.NRGBA{0, 0, 0, 26},
		Text:       color.NRGBA{255, 255, 255, 255},
		Plate:      color.NRGBA{0, 0, 0, 178},
		Monochrome: true,
	},
}

// ThemeByName resolves a theme, falling back to the default palette for the
// empty string or an unknown name.
func ThemeByName(name models.VideoTheme) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[models.ThemeDefault]
}
