package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
)

// transcribeFunc отправляет готовый WAV в облачный движок и возвращает текст.
type transcribeFunc func(ctx context.Context, wav io.Reader) (string, error)

// bufferedRecognizer копит весь PCM и распознаёт его одним запросом в FinalResult.
// Границ фраз облачные движки не сообщают, поэтому AcceptWaveform всегда false.
type bufferedRecognizer struct {
	ctx        context.Context
	sampleRate int
	timeout    time.Duration
	transcribe transcribeFunc
	pcm        bytes.Buffer
}

func newBufferedRecognizer(ctx context.Context, sampleRate int, timeout time.Duration, fn transcribeFunc) *bufferedRecognizer {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &bufferedRecognizer{ctx: ctx, sampleRate: sampleRate, timeout: timeout, transcribe: fn}
}

func (r *bufferedRecognizer) AcceptWaveform(pcm []byte) (bool, error) {
	r.pcm.Write(pcm)
	return false, nil
}

func (r *bufferedRecognizer) Result() (string, error) {
	return `{"text": ""}`, nil
}

func (r *bufferedRecognizer) FinalResult() (string, error) {
	if r.pcm.Len() == 0 {
		return `{"text": ""}`, nil
	}

	var wav memWriteSeeker
	if err := WritePCMToWav(&wav, r.pcm.Bytes(), r.sampleRate, 1); err != nil {
		return "", err
	}

	// timeout движка, но не дольше запроса
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	text, err := r.transcribe(ctx, bytes.NewReader(wav.buf))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognition, err)
	}

	out, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (r *bufferedRecognizer) Close() error {
	r.pcm.Reset()
	return nil
}

// memWriteSeeker: io.WriteSeeker в памяти для WAV-энкодера (он дописывает заголовок в конце).
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	copy(m.buf[m.pos:], p)
	m.pos = end
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = len(m.buf)
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	next := base + int(offset)
	if next < 0 {
		return 0, fmt.Errorf("negative position %d", next)
	}
	m.pos = next
	return int64(next), nil
}
