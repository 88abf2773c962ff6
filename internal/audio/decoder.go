package audio

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// SampleRate is the fixed rate of every narration payload the collaborator
// produces: signed 16-bit little-endian PCM, mono, 24kHz.
const SampleRate = 24000

// ErrDecode marks a malformed or truncated narration payload.
var ErrDecode = errors.New("audio decode failed")

// Buffer is a decoded narration clip: mono samples normalized to [-1, 1).
type Buffer struct {
	Samples []float32
}

// Duration returns the clip length in seconds.
func (b *Buffer) Duration() float64 {
	return float64(len(b.Samples)) / SampleRate
}

// Decode converts a base64 PCM payload into a Buffer. The payload must hold
// complete 16-bit samples; an odd byte count means a truncated sample and
// fails with ErrDecode so callers can skip the scene instead of playing
// garbage.
func Decode(b64 string) (*Buffer, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrDecode, err)
	}

	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: payload of %d bytes is not aligned to 16-bit samples", ErrDecode, len(raw))
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		s := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		samples[i] = float32(s) / 32768.0
	}

	return &Buffer{Samples: samples}, nil
}
