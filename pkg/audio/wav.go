package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// decodeWAV parses a RIFF/WAVE container: it validates the magic,
// walks sub-chunks by declared size (with even-byte padding) until the
// "fmt " and "data" chunks are found, converts PCM to float32 and
// downmixes to mono by channel-wise average.
//
// 16-bit samples map to s/32768, 8-bit (unsigned) to (s-128)/128.
// Other bit depths, truncated chunks, and missing chunks report
// errCorruptContainer.
func decodeWAV(data []byte) (*Signal, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: %d bytes, need 12 for RIFF header", errCorruptContainer, len(data))
	}
	if !bytes.Equal(data[:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE magic", errCorruptContainer)
	}

	var (
		haveFmt       bool
		channels      int
		sampleRate    int
		bitsPerSample int
	)

	pos := 12
	for pos+8 <= len(data) {
		chunkID := data[pos : pos+4]
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		switch {
		case bytes.Equal(chunkID, []byte("fmt ")):
			if chunkSize < 16 || body+16 > len(data) {
				return nil, fmt.Errorf("%w: fmt chunk truncated", errCorruptContainer)
			}
			fmtData := data[body:]
			channels = int(binary.LittleEndian.Uint16(fmtData[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(fmtData[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(fmtData[14:16]))
			if channels == 0 || sampleRate == 0 {
				return nil, fmt.Errorf("%w: fmt declares %d channels at %d Hz", errCorruptContainer, channels, sampleRate)
			}
			haveFmt = true

		case bytes.Equal(chunkID, []byte("data")):
			if !haveFmt {
				return nil, fmt.Errorf("%w: data chunk before fmt", errCorruptContainer)
			}
			if body+chunkSize > len(data) {
				return nil, fmt.Errorf("%w: data chunk truncated (%d declared, %d available)",
					errCorruptContainer, chunkSize, len(data)-body)
			}
			samples, err := pcmToFloat(data[body:body+chunkSize], bitsPerSample)
			if err != nil {
				return nil, err
			}
			return &Signal{
				Samples:    downmix(samples, channels),
				SampleRate: sampleRate,
			}, nil
		}

		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++ // chunks are word-aligned
		}
	}

	return nil, fmt.Errorf("%w: no data chunk", errCorruptContainer)
}

// pcmToFloat converts interleaved PCM bytes to float32 samples in [-1, 1].
func pcmToFloat(pcm []byte, bitsPerSample int) ([]float32, error) {
	switch bitsPerSample {
	case 16:
		n := len(pcm) / 2
		samples := make([]float32, n)
		for i := 0; i < n; i++ {
			s := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
			samples[i] = float32(s) / 32768.0
		}
		return samples, nil
	case 8:
		samples := make([]float32, len(pcm))
		for i, b := range pcm {
			samples[i] = (float32(b) - 128) / 128.0
		}
		return samples, nil
	default:
		return nil, fmt.Errorf("%w: unsupported bit depth %d", errCorruptContainer, bitsPerSample)
	}
}

// downmix averages interleaved channel frames into a mono signal.
// Mono input is returned as-is; trailing incomplete frames are dropped.
func downmix(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

// EncodeWAV serializes a signal as a 16-bit mono PCM WAV buffer.
// Samples outside [-1, 1] are clipped.
func EncodeWAV(sig *Signal) []byte {
	dataSize := len(sig.Samples) * 2
	buf := make([]byte, 44+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sig.SampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sig.SampleRate*2)) // byte rate
	binary.LittleEndian.PutUint16(buf[32:34], 2)                        // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16)                       // bits per sample

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i, v := range sig.Samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		s := int16(v * 32767)
		binary.LittleEndian.PutUint16(buf[44+i*2:46+i*2], uint16(s))
	}
	return buf
}
