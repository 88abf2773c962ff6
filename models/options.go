package models

// VideoTheme selects the overlay and subtitle palette applied to every frame
// of a video export.
type VideoTheme string

const (
	ThemeDefault       VideoTheme = "default"
	ThemeCorporateBlue VideoTheme = "corporate-blue"
	ThemeVibrantSunset VideoTheme = "vibrant-sunset"
	ThemeMonochrome    VideoTheme = "monochrome"
)

// VideoExportOptions configures a single video export run.
type VideoExportOptions struct {
	AddSubtitles bool       `json:"add_subtitles"`
	Theme        VideoTheme `json:"theme" validate:"omitempty,oneof=default corporate-blue vibrant-sunset monochrome"`
}
