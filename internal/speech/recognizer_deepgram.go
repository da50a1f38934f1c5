package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
)

const deepgramBaseURL = "https://api.deepgram.com"

// DeepgramModel: облачное распознавание через Deepgram (nova-2).
type DeepgramModel struct {
	apiKey   string
	baseURL  string
	language string
	client   *http.Client
	timeout  time.Duration
}

func NewDeepgramModel(apiKey, lang string) *DeepgramModel {
	return &DeepgramModel{
		apiKey:   apiKey,
		baseURL:  deepgramBaseURL,
		language: whisperLanguages[lang],
		client:   &http.Client{},
		timeout:  2 * time.Minute,
	}
}

func (m *DeepgramModel) NewRecognizer(ctx context.Context, sampleRate int) (Recognizer, error) {
	return newBufferedRecognizer(ctx, sampleRate, m.timeout, m.transcribe), nil
}

func (m *DeepgramModel) transcribe(ctx context.Context, wav io.Reader) (string, error) {
	q := url.Values{}
	q.Set("model", "nova-2")
	// регистр и пунктуацию расставляет ETP
	q.Set("smart_format", "false")
	if m.language != "" {
		q.Set("language", m.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/listen?"+q.Encode(), wav)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Token "+m.apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepgram error: %s", body)
	}

	var parsed struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode deepgram: %w", err)
	}

	// пустой список альтернатив: речи нет, это не ошибка
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}
	return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
}
