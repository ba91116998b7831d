package audio

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

// buildWAV constructs a minimal PCM WAV buffer for tests.
func buildWAV(t *testing.T, channels int, sampleRate int, bits int, pcm []byte) []byte {
	t.Helper()
	buf := make([]byte, 44+len(pcm))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+len(pcm)))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1)
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*channels*bits/8))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(channels*bits/8))
	binary.LittleEndian.PutUint16(buf[34:36], uint16(bits))
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(len(pcm)))
	copy(buf[44:], pcm)
	return buf
}

func pcm16(samples ...int16) []byte {
	b := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(s))
	}
	return b
}

func TestDecodeWAV16Bit(t *testing.T) {
	want := []int16{0, 16384, -16384, 32767, -32768}
	buf := buildWAV(t, 1, 16000, 16, pcm16(want...))

	sig, err := decodeWAV(buf)
	if err != nil {
		t.Fatal(err)
	}
	if sig.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", sig.SampleRate)
	}
	if len(sig.Samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(sig.Samples), len(want))
	}
	for i, s := range want {
		got := sig.Samples[i]
		expect := float32(s) / 32768.0
		if math.Abs(float64(got-expect)) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got, expect)
		}
	}
}

func TestDecodeWAV8Bit(t *testing.T) {
	buf := buildWAV(t, 1, 8000, 8, []byte{128, 255, 0, 192})

	sig, err := decodeWAV(buf)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0, 127.0 / 128, -1, 0.5}
	for i, expect := range want {
		if math.Abs(float64(sig.Samples[i]-expect)) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, sig.Samples[i], expect)
		}
	}
}

func TestDecodeWAVStereoDownmix(t *testing.T) {
	// Two frames: (16384, 0) and (-16384, -16384).
	buf := buildWAV(t, 2, 44100, 16, pcm16(16384, 0, -16384, -16384))

	sig, err := decodeWAV(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(sig.Samples) != 2 {
		t.Fatalf("got %d mono samples, want 2", len(sig.Samples))
	}
	if got, want := sig.Samples[0], float32(0.25); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("frame 0 = %v, want %v", got, want)
	}
	if got, want := sig.Samples[1], float32(-0.5); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("frame 1 = %v, want %v", got, want)
	}
}

func TestDecodeWAVRoundTrip(t *testing.T) {
	orig := &Signal{
		Samples:    []float32{0, 0.25, -0.25, 0.5, -0.5, 0.99},
		SampleRate: 16000,
	}
	once, err := decodeWAV(EncodeWAV(orig))
	if err != nil {
		t.Fatal(err)
	}
	twice, err := decodeWAV(EncodeWAV(once))
	if err != nil {
		t.Fatal(err)
	}
	if len(once.Samples) != len(orig.Samples) {
		t.Fatalf("got %d samples, want %d", len(once.Samples), len(orig.Samples))
	}
	for i := range orig.Samples {
		if math.Abs(float64(once.Samples[i]-orig.Samples[i])) > 1.0/32768 {
			t.Errorf("sample %d = %v, want %v within one quantization step", i, once.Samples[i], orig.Samples[i])
		}
		// Re-encoding a decoded signal must be lossless.
		if once.Samples[i] != twice.Samples[i] {
			t.Errorf("sample %d changed on second round trip: %v vs %v", i, once.Samples[i], twice.Samples[i])
		}
	}
}

func TestDecodeWAVCorrupt(t *testing.T) {
	good := buildWAV(t, 1, 16000, 16, pcm16(1, 2, 3, 4))

	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", good[:8]},
		{"bad magic", append([]byte("RIFX"), good[4:]...)},
		{"truncated data chunk", good[:len(good)-4]},
		{"no data chunk", good[:40]},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeWAV(tc.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	d := NewDecoder()
	if _, err := d.Decode([]byte("not audio at all"), "txt"); err != ErrUnsupportedFormat {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeCorruptFallsBackToPlaceholder(t *testing.T) {
	// WAV-tagged garbage must degrade, not fail.
	data := make([]byte, 4000)
	for i := range data {
		data[i] = byte(i)
	}
	d := NewDecoder()
	sig, err := d.Decode(data, "wav")
	if err != nil {
		t.Fatal(err)
	}
	if len(sig.Samples) == 0 {
		t.Fatal("placeholder signal is empty")
	}
	if sig.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", sig.SampleRate)
	}
}

func TestDecodeMP3UsesPlaceholder(t *testing.T) {
	d := NewDecoder()
	sig, err := d.Decode(make([]byte, 64000), "mp3")
	if err != nil {
		t.Fatal(err)
	}
	// 64000 bytes estimate to 2 seconds at 16kHz.
	if got, want := len(sig.Samples), 32000; got != want {
		t.Errorf("got %d samples, want %d", got, want)
	}
}

func TestPlaceholderDeterminism(t *testing.T) {
	data := []byte("the same bytes every time")
	a := Placeholder(data)
	b := Placeholder(data)
	if len(a.Samples) != len(b.Samples) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Samples), len(b.Samples))
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a.Samples[i], b.Samples[i])
		}
	}
}

func TestPlaceholderDurationClamp(t *testing.T) {
	short := Placeholder([]byte("x"))
	if got := short.Duration(); got != time.Second {
		t.Errorf("short buffer duration = %s, want 1s", got)
	}
	long := Placeholder(make([]byte, 32000*100))
	if got := long.Duration(); got != 30*time.Second {
		t.Errorf("large buffer duration = %s, want 30s", got)
	}
}
