package speech

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/mattn/go-shellwords"
)

// ExecModel: языковая модель внешнего распознавателя (Vosk и т.п.).
// На каждое аудио запускается процесс `<command> --model <dir> --sample-rate <n>`,
// обмен идёт JSON-строками через stdin/stdout.
type ExecModel struct {
	cmd       []string
	modelPath string
}

type execRecRequest struct {
	Op        string `json:"op"`
	PCMBase64 string `json:"pcm_base64,omitempty"`
}

type execRecResponse struct {
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

func NewExecModel(command, modelPath string) (*ExecModel, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse stt command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("stt command is empty")
	}
	return &ExecModel{cmd: args, modelPath: modelPath}, nil
}

func (m *ExecModel) NewRecognizer(ctx context.Context, sampleRate int) (Recognizer, error) {
	args := append([]string{}, m.cmd[1:]...)
	if m.modelPath != "" {
		args = append(args, "--model", m.modelPath)
	}
	args = append(args, "--sample-rate", strconv.Itoa(sampleRate))

	// по отмене ctx процесс убивается, зависшее чтение stdout получает EOF
	cmd := exec.CommandContext(ctx, m.cmd[0], args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start stt command: %w", err)
	}

	return &execRecognizer{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		stderr: &stderr,
	}, nil
}

type execRecognizer struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	stderr *strings.Builder
	closed bool
}

func (r *execRecognizer) roundTrip(req execRecRequest) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	if _, err := r.stdin.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("write to recognizer: %w: %s", err, r.stderr.String())
	}
	line, err := r.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read from recognizer: %w: %s", err, r.stderr.String())
	}

	var status execRecResponse
	if err := json.Unmarshal(line, &status); err != nil {
		return nil, fmt.Errorf("decode recognizer response: %w", err)
	}
	if status.Error != "" {
		return nil, errors.New(status.Error)
	}
	return line, nil
}

func (r *execRecognizer) AcceptWaveform(pcm []byte) (bool, error) {
	line, err := r.roundTrip(execRecRequest{
		Op:        "accept",
		PCMBase64: base64.StdEncoding.EncodeToString(pcm),
	})
	if err != nil {
		return false, err
	}
	var resp execRecResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return false, err
	}
	return resp.Accepted, nil
}

func (r *execRecognizer) Result() (string, error) {
	line, err := r.roundTrip(execRecRequest{Op: "result"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(line)), nil
}

func (r *execRecognizer) FinalResult() (string, error) {
	line, err := r.roundTrip(execRecRequest{Op: "final"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(line)), nil
}

func (r *execRecognizer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.stdin.Close()
	return r.cmd.Wait()
}
