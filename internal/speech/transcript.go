package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// TranscriptAccumulator склеивает сегменты распознавания.
// Непустой сегмент добавляется через пробел, серия пустых даёт один перевод строки.
type TranscriptAccumulator struct {
	b         strings.Builder
	lastBlank bool
}

func (a *TranscriptAccumulator) AddSegment(text string) {
	if text != "" {
		a.b.WriteString(" ")
		a.b.WriteString(text)
		a.lastBlank = false
		return
	}
	if !a.lastBlank {
		a.b.WriteString("\n")
		a.lastBlank = true
	}
}

// Finish добавляет финальный результат всегда, даже пустой (остаётся хвостовой пробел).
func (a *TranscriptAccumulator) Finish(text string) {
	a.b.WriteString(" ")
	a.b.WriteString(text)
}

func (a *TranscriptAccumulator) String() string {
	return a.b.String()
}

// BuildTranscript распознаёт WAV-файл. Нет файла → "" без ошибки:
// пустая строка означает «распознавание невозможно».
// Непустой результат всегда начинается с разделителя (пробел или перевод строки).
func BuildTranscript(ctx context.Context, path string, model Model) (string, error) {
	src, err := OpenWav(path)
	if err != nil {
		if errors.Is(err, ErrNoInput) {
			return "", nil
		}
		return "", err
	}
	return Transcribe(ctx, src, model)
}

// Transcribe прогоняет источник через распознаватель модели.
func Transcribe(ctx context.Context, src FrameSource, model Model) (string, error) {
	rec, err := model.NewRecognizer(ctx, src.SampleRate())
	if err != nil {
		return "", fmt.Errorf("%w: new recognizer: %v", ErrRecognition, err)
	}
	defer rec.Close()

	var acc TranscriptAccumulator

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrRecognition, err)
		}
		frames, err := src.ReadFrames()
		if err != nil {
			return "", fmt.Errorf("%w: read frames: %v", ErrRecognition, err)
		}
		if len(frames) == 0 {
			break
		}

		accepted, err := rec.AcceptWaveform(frames)
		if err != nil {
			return "", fmt.Errorf("%w: accept waveform: %v", ErrRecognition, err)
		}
		if !accepted {
			continue
		}

		res, err := rec.Result()
		if err != nil {
			return "", fmt.Errorf("%w: result: %v", ErrRecognition, err)
		}
		text, err := resultText(res)
		if err != nil {
			return "", err
		}
		acc.AddSegment(text)
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognition, err)
	}
	final, err := rec.FinalResult()
	if err != nil {
		return "", fmt.Errorf("%w: final result: %v", ErrRecognition, err)
	}
	text, err := resultText(final)
	if err != nil {
		return "", err
	}
	acc.Finish(text)

	return acc.String(), nil
}

func resultText(raw string) (string, error) {
	var res struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return "", fmt.Errorf("%w: decode result %q: %v", ErrRecognition, raw, err)
	}
	return res.Text, nil
}
