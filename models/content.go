package models

// Style selects the tone of the generated article and script.
type Style string

const (
	StyleInformational Style = "Informational"
	StylePersonal      Style = "Personal Experience"
	StyleEntertainment Style = "Entertainment"
	StyleProfessional  Style = "Professional / Business"
	StyleTechnical     Style = "Technical Deep Dive"
)

// Language is the output language for every generated artifact.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageChinese Language = "Chinese"
)

// Voice is the prebuilt narration voice used for scene audio.
type Voice string

const (
	VoiceKore   Voice = "Kore"
	VoicePuck   Voice = "Puck"
	VoiceCharon Voice = "Charon"
	VoiceFenrir Voice = "Fenrir"
	VoiceZephyr Voice = "Zephyr"
)

// ComplianceProfile constrains generated content for a regulatory audience.
type ComplianceProfile string

const (
	ComplianceStandard   ComplianceProfile = "Standard (Global)"
	ComplianceCOPPA      ComplianceProfile = "COPPA (US Children's Online Privacy)"
	ComplianceGDPR       ComplianceProfile = "GDPR (EU Data Privacy)"
	ComplianceHealthcare ComplianceProfile = "Healthcare (HIPAA-focused)"
)

// ImageQuality selects the rendering quality for Image Studio output.
type ImageQuality string

const (
	ImageQualityStandard ImageQuality = "Standard"
	ImageQualityHD       ImageQuality = "HD"
)

// ImageStyle steers the visual treatment of Image Studio renders.
type ImageStyle string

const (
	ImageStyleNone           ImageStyle = "None (Default)"
	ImageStylePhotorealistic ImageStyle = "Photorealistic"
	ImageStyleCartoon        ImageStyle = "Cartoon"
	ImageStyleAbstract       ImageStyle = "Abstract"
	ImageStyleAnime          ImageStyle = "Anime / Manga"
	ImageStyleFantasy        ImageStyle = "Fantasy Art"
)

// ConvertFormat is the target of a text conversion: an article becomes a
// video script, or a script becomes an article-style summary.
type ConvertFormat string

const (
	ConvertToScript  ConvertFormat = "script"
	ConvertToSummary ConvertFormat = "summary"
)

// GeneratedContent is the three-section package produced for a topic.
type GeneratedContent struct {
	Article string `json:"article"`
	Script  string `json:"script"`
	Titles  string `json:"titles"`
}

// GroundingSource is a web source the collaborator cited while generating.
type GroundingSource struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// SeoAnalysis is the trend report produced for a set of titles and tags.
type SeoAnalysis struct {
	KeywordDifficulty  int    `json:"keyword_difficulty"`
	SearchVolumeTrend  string `json:"search_volume_trend"` // Rising, Stable or Falling
	CompetitorAnalysis string `json:"competitor_analysis"`
	ContentStrategy    string `json:"content_strategy"`
}
