package speech

import (
	"context"
	"errors"
	"strings"

	"github.com/Vovarama1992/ranto_vox/internal/etp"
)

var (
	// ErrNoInput: аудиофайла нет или его нельзя прочитать.
	ErrNoInput          = errors.New("audio input is missing")
	ErrInvalidAudio     = errors.New("audio is not mono 16-bit pcm wav")
	ErrTranscode        = errors.New("audio transcoding failed")
	ErrRecognition      = errors.New("speech recognition failed")
	ErrSynthesis        = errors.New("speech synthesis failed")
	ErrUnsupportedModel = errors.New("no language model for language")
)

// === Распознавание ===

// Recognizer: контекст распознавания одного аудио (Vosk-подобный API).
// Result/FinalResult отдают JSON вида {"text": "..."}.
type Recognizer interface {
	// AcceptWaveform возвращает true, когда достигнута граница фразы.
	AcceptWaveform(pcm []byte) (bool, error)
	Result() (string, error)
	FinalResult() (string, error)
	Close() error
}

// Model: загруженная языковая модель; только чтение, общая для всех запросов.
// Распознаватель живёт не дольше ctx: отмена прерывает процесс или облачный запрос.
type Model interface {
	NewRecognizer(ctx context.Context, sampleRate int) (Recognizer, error)
}

// FrameSource: источник PCM. ReadFrames отдаёт весь оставшийся буфер,
// пустой срез означает конец потока.
type FrameSource interface {
	SampleRate() int
	ReadFrames() ([]byte, error)
}

// === Синтез ===

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(s string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	}
	return "", false
}

type Synthesizer interface {
	// Synthesize сохраняет озвученный текст в outPath (любой формат, понятный ffmpeg).
	Synthesize(ctx context.Context, text string, voice Gender, outPath string) error
}

// === Конвертация ===

type Transcoder interface {
	ToWav(ctx context.Context, inPath, outPath string) error
	ToOgg(ctx context.Context, inPath, outPath string) error
}

// TextNormalizer: постобработка распознанного текста (ETP).
type TextNormalizer interface {
	Normalize(raw, lang string) etp.Result
}
