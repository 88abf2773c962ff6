package scenes

import (
	"regexp"
	"strings"
)

// Segment is one narration block of a video script, with the visual cue the
// script attached to it, if any.
type Segment struct {
	Text   string
	Visual string
}

var (
	blockSplitRe   = regexp.MustCompile(`\n\s*\n`)
	speakerLabelRe = regexp.MustCompile(`^[a-zA-Z]+:\s*`)
)

// ParseScript splits a script into scene segments. Blocks are separated by
// blank lines; a leading "[Visual: ...]" line becomes the segment's visual
// cue, and speaker labels like "Narrator:" are stripped from narration lines.
// Blocks with no narration text are dropped.
func ParseScript(script string) []Segment {
	var segments []Segment
	for _, block := range blockSplitRe.Split(script, -1) {
		var visual string
		var narration []string
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "[Visual:") {
				visual = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "[Visual:"), "]"))
				continue
			}
			narration = append(narration, speakerLabelRe.ReplaceAllString(line, ""))
		}
		text := strings.TrimSpace(strings.Join(narration, " "))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{Text: text, Visual: visual})
	}
	return segments
}
