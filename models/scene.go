package models

// Scene is one storyboard entry: narration text plus the generated media
// payloads for it. Payloads stay base64-encoded until a consumer needs the
// raw bytes. Scenes are immutable once created and their order is fixed;
// the player and every exporter iterate the same sequence.
type Scene struct {
	NarrationText string `json:"text"`
	ImageB64      string `json:"image"` // base64 JPEG
	AudioB64      string `json:"audio"` // base64 signed 16-bit LE PCM, mono, 24kHz
}

// AspectRatio is the target frame shape for storyboard images and video.
type AspectRatio string

const (
	AspectSixteenNine AspectRatio = "16:9"
	AspectNineSixteen AspectRatio = "9:16"
	AspectOneOne      AspectRatio = "1:1"
	AspectFourThree   AspectRatio = "4:3"
	AspectThreeFour   AspectRatio = "3:4"
)

// CanvasSize returns the pixel dimensions used when compositing video for
// this aspect ratio.
func (a AspectRatio) CanvasSize() (w, h int) {
	switch a {
	case AspectNineSixteen:
		return 720, 1280
	case AspectOneOne:
		return 720, 720
	case AspectFourThree:
		return 960, 720
	case AspectThreeFour:
		return 720, 960
	default:
		return 1280, 720
	}
}
