package tts

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// The speech model streams raw little-endian PCM at this shape unless it
// already produced a container.
const (
	pcmSampleRate = 24000
	pcmBitDepth   = 16
	pcmChannels   = 1
)

// EnsureWAV returns data as a playable WAV file. Data that already carries a
// RIFF header passes through untouched; raw PCM gets wrapped.
func EnsureWAV(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, []byte("RIFF")) {
		return data, nil
	}
	return wrapPCM(data)
}

// wrapPCM writes a WAV container around raw 24 kHz 16-bit mono samples. The
// encoder needs a seekable writer for header back-patching, so it goes
// through a throwaway temp file.
func wrapPCM(pcm []byte) ([]byte, error) {
	f, err := os.CreateTemp("", "tts-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)
	defer f.Close()

	enc := wav.NewEncoder(f, pcmSampleRate, pcmBitDepth, pcmChannels, 1)

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(pcm[2*i]) | int16(pcm[2*i+1])<<8)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: pcmChannels, SampleRate: pcmSampleRate},
		SourceBitDepth: pcmBitDepth,
		Data:           samples,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize wav: %w", err)
	}

	return os.ReadFile(name)
}
