package speech

import (
	"context"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperModel: облачное распознавание через OpenAI Whisper.
type WhisperModel struct {
	client   *openai.Client
	model    string
	language string
	timeout  time.Duration
}

var whisperLanguages = map[string]string{
	"RUSSIAN": "ru",
	"ENGLISH": "en",
}

func NewWhisperModel(client *openai.Client, model, lang string) *WhisperModel {
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperModel{
		client:   client,
		model:    model,
		language: whisperLanguages[lang],
		timeout:  2 * time.Minute,
	}
}

func (m *WhisperModel) NewRecognizer(ctx context.Context, sampleRate int) (Recognizer, error) {
	return newBufferedRecognizer(ctx, sampleRate, m.timeout, m.transcribe), nil
}

func (m *WhisperModel) transcribe(ctx context.Context, wav io.Reader) (string, error) {
	resp, err := m.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    m.model,
		FilePath: "voice.wav",
		Reader:   wav,
		Language: m.language,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
