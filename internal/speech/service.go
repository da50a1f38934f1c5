package speech

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Vovarama1992/ranto_vox/internal/etp"
	"github.com/Vovarama1992/ranto_vox/internal/metrics"
	"go.uber.org/zap"
)

// MinSpeechLen: распознанный текст короче этого считается отсутствием речи.
const MinSpeechLen = 3

type Outcome int

const (
	OutcomeRecognized Outcome = iota
	// OutcomeNoInput: распознавать было нечего (файл не появился).
	OutcomeNoInput
	// OutcomeEmpty: речь не найдена.
	OutcomeEmpty
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRecognized:
		return "recognized"
	case OutcomeNoInput:
		return "no_input"
	case OutcomeEmpty:
		return "empty"
	}
	return "unknown"
}

type Recognition struct {
	Text      string
	Outcome   Outcome
	ETPStatus etp.Status
}

// === Единый сервис (и для стт и для ттс) ===

type Service struct {
	models     Models
	synth      Synthesizer
	transcoder Transcoder
	normalizer TextNormalizer
	files      *TempFiles
	log        *zap.Logger
}

func NewService(
	models Models,
	synth Synthesizer,
	transcoder Transcoder,
	normalizer TextNormalizer,
	files *TempFiles,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		models:     models,
		synth:      synth,
		transcoder: transcoder,
		normalizer: normalizer,
		files:      files,
		log:        log,
	}
}

// Recognize: голосовое (OGG) → текст с постобработкой ETP.
// Временный WAV удаляется, исходный OGG остаётся на совести вызывающего.
func (s *Service) Recognize(ctx context.Context, oggPath, wavPath, lang string) (Recognition, error) {
	model, err := s.models.Get(lang)
	if err != nil {
		s.countSTT(lang, "error")
		return Recognition{}, err
	}

	defer s.files.Remove(wavPath)

	if err := s.transcoder.ToWav(ctx, oggPath, wavPath); err != nil {
		s.countSTT(lang, "error")
		return Recognition{}, err
	}

	started := time.Now()
	raw, err := BuildTranscript(ctx, wavPath, model)
	metrics.DefaultMetrics.STTLatency.Observe(time.Since(started).Seconds())
	if err != nil {
		s.countSTT(lang, "error")
		return Recognition{}, err
	}

	if raw == "" {
		s.countSTT(lang, OutcomeNoInput.String())
		return Recognition{Outcome: OutcomeNoInput}, nil
	}

	res := s.normalizer.Normalize(raw, lang)
	rec := Recognition{Text: res.Text, Outcome: OutcomeRecognized, ETPStatus: res.Status}
	if utf8.RuneCountInString(res.Text) < MinSpeechLen {
		rec.Outcome = OutcomeEmpty
	}

	s.countSTT(lang, rec.Outcome.String())
	s.log.Debug("[stt] recognized",
		zap.String("lang", lang),
		zap.String("outcome", rec.Outcome.String()),
		zap.String("etp", string(res.Status)),
	)
	return rec, nil
}

// Speak: текст → OGG/Vorbis. cleanup удаляет оба временных файла.
func (s *Service) Speak(ctx context.Context, text string, voice Gender, userID int64) (string, func(), error) {
	wavPath, oggPath := s.files.Pair("VoiceFor", userID, ".wav", ".ogg")
	cleanup := func() { s.files.Remove(wavPath, oggPath) }

	started := time.Now()
	defer func() {
		metrics.DefaultMetrics.TTSLatency.Observe(time.Since(started).Seconds())
	}()

	if err := s.synth.Synthesize(ctx, text, voice, wavPath); err != nil {
		cleanup()
		s.countTTS(voice, "error")
		if errors.Is(err, ErrSynthesis) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	if err := s.transcoder.ToOgg(ctx, wavPath, oggPath); err != nil {
		cleanup()
		s.countTTS(voice, "error")
		return "", nil, err
	}

	s.countTTS(voice, "ok")
	return oggPath, cleanup, nil
}

// VoicePaths: пути для входящего голосового пользователя.
func (s *Service) VoicePaths(userID int64) (oggPath, wavPath string) {
	return s.files.Pair("VoiceFrom", userID, ".ogg", ".wav")
}

func (s *Service) RemoveFiles(paths ...string) {
	s.files.Remove(paths...)
}

func (s *Service) countSTT(lang, outcome string) {
	metrics.DefaultMetrics.STTRequests.WithLabelValues(lang, outcome).Inc()
}

func (s *Service) countTTS(voice Gender, outcome string) {
	metrics.DefaultMetrics.TTSRequests.WithLabelValues(string(voice), outcome).Inc()
}
