package speech

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type pcmSource struct {
	sampleRate int
	data       []byte
}

func (s *pcmSource) SampleRate() int { return s.sampleRate }

func (s *pcmSource) ReadFrames() ([]byte, error) {
	out := s.data
	s.data = nil
	return out, nil
}

// NewPCMSource: источник из уже декодированных 16-битных сэмплов.
func NewPCMSource(sampleRate int, pcm []byte) FrameSource {
	return &pcmSource{sampleRate: sampleRate, data: pcm}
}

// OpenWav читает 16-битный PCM WAV; частота берётся из заголовка.
// Стерео сводится в моно.
func OpenWav(path string) (FrameSource, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, ErrNoInput
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrNoInput
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAudio, path)
	}
	if d.BitDepth != 16 {
		return nil, fmt.Errorf("%w: bit depth %d", ErrInvalidAudio, d.BitDepth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidAudio, err)
	}

	channels := int(d.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidAudio)
	}
	return NewPCMSource(int(d.SampleRate), samplesToPCM(buf.Data, channels)), nil
}

func samplesToPCM(samples []int, channels int) []byte {
	frames := len(samples) / channels
	out := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(sum/channels)))
	}
	return out
}

// WritePCMToWav кодирует 16-битный little-endian PCM в WAV.
func WritePCMToWav(w io.WriteSeeker, pcm []byte, sampleRate, channels int) error {
	if len(pcm)%2 != 0 {
		return fmt.Errorf("pcm payload not aligned")
	}
	buffer := &audio.IntBuffer{Format: &audio.Format{NumChannels: channels, SampleRate: sampleRate}}
	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	buffer.Data = samples

	enc := wav.NewEncoder(w, sampleRate, 16, channels, 1)
	if err := enc.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
