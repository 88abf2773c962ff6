package audio

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pcmPayload builds a base64 payload from 16-bit samples.
func pcmPayload(samples ...int16) string {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(s))
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestDecode(t *testing.T) {
	buf, err := Decode(pcmPayload(0, 32767, -32768, 16384))
	require.NoError(t, err)

	require.Len(t, buf.Samples, 4)
	assert.Equal(t, float32(0), buf.Samples[0])
	assert.InDelta(t, 0.99997, buf.Samples[1], 0.0001)
	assert.Equal(t, float32(-1), buf.Samples[2])
	assert.InDelta(t, 0.5, buf.Samples[3], 0.0001)
	assert.InDelta(t, 4.0/24000.0, buf.Duration(), 1e-9)
}

func TestDecodeSampleCountMatchesByteLength(t *testing.T) {
	for _, n := range []int{0, 1, 3, 240, 24000} {
		samples := make([]int16, n)
		buf, err := Decode(pcmPayload(samples...))
		require.NoError(t, err)
		assert.Len(t, buf.Samples, n)
		assert.InDelta(t, float64(n)/24000.0, buf.Duration(), 1e-9)
	}
}

func TestDecodeOddLengthPayload(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03})
	_, err := Decode(payload)
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecodeInvalidBase64(t *testing.T) {
	_, err := Decode("not!!base64")
	require.ErrorIs(t, err, ErrDecode)
}

func TestCacheMemoizes(t *testing.T) {
	cache := NewCache()
	payload := pcmPayload(1, 2, 3)

	first, err := cache.Decode(payload)
	require.NoError(t, err)
	second, err := cache.Decode(payload)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	cache := NewCache()
	_, err := cache.Decode("***")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestStitch(t *testing.T) {
	cache := NewCache()
	payloads := []string{
		pcmPayload(make([]int16, 480)...),  // 20ms
		pcmPayload(make([]int16, 1200)...), // 50ms
		pcmPayload(make([]int16, 240)...),  // 10ms
	}

	timeline, err := Stitch(cache, payloads)
	require.NoError(t, err)

	require.Len(t, timeline.Durations, 3)
	assert.Len(t, timeline.Samples, 480+1200+240)
	assert.InDelta(t, 0.08, timeline.TotalDuration(), 1e-9)

	// Per-scene offsets are monotonically increasing and non-overlapping.
	sum := 0.0
	offset := 0.0
	for _, d := range timeline.Durations {
		assert.GreaterOrEqual(t, d, 0.0)
		assert.GreaterOrEqual(t, offset+d, offset)
		offset += d
		sum += d
	}
	assert.InDelta(t, timeline.TotalDuration(), sum, 1e-9)
}

func TestStitchFailsWhole(t *testing.T) {
	cache := NewCache()
	payloads := []string{
		pcmPayload(1, 2),
		base64.StdEncoding.EncodeToString([]byte{0x01}), // truncated sample
		pcmPayload(3, 4),
	}

	_, err := Stitch(cache, payloads)
	require.ErrorIs(t, err, ErrStitch)
}
