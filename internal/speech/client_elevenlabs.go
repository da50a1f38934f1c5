package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

const elevenLabsBaseURL = "https://api.elevenlabs.io"

// ElevenLabsClient: облачный TTS; голоса задаются voice_id для каждого пола.
type ElevenLabsClient struct {
	apiKey  string
	baseURL string
	voices  map[Gender]string
	httpCli *http.Client
}

func NewElevenLabsClient(apiKey, maleVoiceID, femaleVoiceID string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:  apiKey,
		baseURL: elevenLabsBaseURL,
		voices: map[Gender]string{
			GenderMale:   maleVoiceID,
			GenderFemale: femaleVoiceID,
		},
		httpCli: http.DefaultClient,
	}
}

// TEXT → SPEECH (mp3, дальше его перекодирует ffmpeg)
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string, voice Gender, outPath string) error {
	voiceID, ok := c.voices[voice]
	if !ok || voiceID == "" {
		return fmt.Errorf("%w: unknown voice %q", ErrSynthesis, voice)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID)
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: elevenlabs error: %s", ErrSynthesis, string(b))
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
