package speech

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/mattn/go-shellwords"
)

// ExecSynth: локальный TTS-движок во внешнем процессе. Запрос уходит JSON-ом в stdin,
// ответ приходит JSON-строками с PCM в base64 и собирается в WAV.
type ExecSynth struct {
	cmd        []string
	voices     map[Gender]string
	sampleRate int
	channels   int
}

type execSynthRequest struct {
	Text       string `json:"text"`
	Voice      string `json:"voice"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

type execSynthChunk struct {
	PCMBase64 string `json:"pcm_base64"`
	Final     bool   `json:"final"`
}

func NewExecSynth(command, maleVoice, femaleVoice string, sampleRate, channels int) (*ExecSynth, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse tts command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("tts command empty")
	}
	return &ExecSynth{
		cmd: args,
		voices: map[Gender]string{
			GenderMale:   maleVoice,
			GenderFemale: femaleVoice,
		},
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

func (e *ExecSynth) Synthesize(ctx context.Context, text string, voice Gender, outPath string) error {
	name, ok := e.voices[voice]
	if !ok {
		return fmt.Errorf("%w: unknown voice %q", ErrSynthesis, voice)
	}

	payload, err := json.Marshal(execSynthRequest{
		Text:       text,
		Voice:      name,
		SampleRate: e.sampleRate,
		Channels:   e.channels,
	})
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, e.cmd[0], e.cmd[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrSynthesis, err)
	}

	var pcm bytes.Buffer
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk execSynthChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			cmd.Wait()
			return fmt.Errorf("%w: decode chunk: %v", ErrSynthesis, err)
		}
		data, err := base64.StdEncoding.DecodeString(chunk.PCMBase64)
		if err != nil {
			cmd.Wait()
			return fmt.Errorf("%w: decode pcm: %v", ErrSynthesis, err)
		}
		pcm.Write(data)
		if chunk.Final {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		cmd.Wait()
		return fmt.Errorf("%w: read output: %v", ErrSynthesis, err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrSynthesis, err, stderr.String())
	}
	if pcm.Len() == 0 {
		return fmt.Errorf("%w: engine returned no audio", ErrSynthesis)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return WritePCMToWav(out, pcm.Bytes(), e.sampleRate, e.channels)
}
