package tts

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEnsureWAVPassthrough(t *testing.T) {
	already := append([]byte("RIFF"), 0x10, 0x00, 0x00, 0x00)
	already = append(already, []byte("WAVEfmt ")...)

	got, err := EnsureWAV(already)
	if err != nil {
		t.Fatalf("passthrough failed: %v", err)
	}
	if !bytes.Equal(got, already) {
		t.Error("data with a RIFF header must pass through unmodified")
	}
}

func TestEnsureWAVWrapsRawPCM(t *testing.T) {
	// 100 samples of silence, 16-bit little endian.
	pcm := make([]byte, 200)

	got, err := EnsureWAV(pcm)
	if err != nil {
		t.Fatalf("wrap failed: %v", err)
	}
	if !bytes.HasPrefix(got, []byte("RIFF")) {
		t.Fatal("wrapped output missing RIFF header")
	}
	if !bytes.Contains(got[:12], []byte("WAVE")) {
		t.Fatal("wrapped output missing WAVE marker")
	}

	fmtIdx := bytes.Index(got, []byte("fmt "))
	if fmtIdx < 0 {
		t.Fatal("wrapped output missing fmt chunk")
	}
	fmtBody := got[fmtIdx+8:]
	if channels := binary.LittleEndian.Uint16(fmtBody[2:4]); channels != pcmChannels {
		t.Errorf("channels = %d, want %d", channels, pcmChannels)
	}
	if rate := binary.LittleEndian.Uint32(fmtBody[4:8]); rate != pcmSampleRate {
		t.Errorf("sample rate = %d, want %d", rate, pcmSampleRate)
	}
	if depth := binary.LittleEndian.Uint16(fmtBody[14:16]); depth != pcmBitDepth {
		t.Errorf("bit depth = %d, want %d", depth, pcmBitDepth)
	}

	dataIdx := bytes.Index(got, []byte("data"))
	if dataIdx < 0 {
		t.Fatal("wrapped output missing data chunk")
	}
	if size := binary.LittleEndian.Uint32(got[dataIdx+4 : dataIdx+8]); int(size) != len(pcm) {
		t.Errorf("data chunk size = %d, want %d", size, len(pcm))
	}
}

func TestVoiceTable(t *testing.T) {
	if len(Voices) != 30 {
		t.Fatalf("expected 30 voices, got %d", len(Voices))
	}
	if !ValidVoice("Zephyr") {
		t.Error("Zephyr should be a valid voice")
	}
	if ValidVoice("zephyr") {
		t.Error("voice names are case sensitive")
	}
	if ValidVoice("HAL9000") {
		t.Error("unknown voice accepted")
	}

	names := VoiceNames()
	if len(names) != 30 {
		t.Fatalf("expected 30 names, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
}
