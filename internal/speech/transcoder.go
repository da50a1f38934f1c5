package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/mattn/go-shellwords"
)

// FFmpeg: конвертация аудио внешним ffmpeg.
type FFmpeg struct {
	cmd        []string
	sampleRate int
}

func NewFFmpeg(command string, sampleRate int) (*FFmpeg, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse ffmpeg command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("ffmpeg command is empty")
	}
	return &FFmpeg{cmd: args, sampleRate: sampleRate}, nil
}

// ToWav: OGG (голосовое Telegram) → моно 16-бит PCM с частотой модели.
func (f *FFmpeg) ToWav(ctx context.Context, inPath, outPath string) error {
	return f.run(ctx, inPath, outPath,
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(f.sampleRate),
	)
}

// ToOgg: результат синтеза → OGG/Vorbis для отправки голосовым.
func (f *FFmpeg) ToOgg(ctx context.Context, inPath, outPath string) error {
	return f.run(ctx, inPath, outPath, "-acodec", "libvorbis")
}

func (f *FFmpeg) run(ctx context.Context, inPath, outPath string, codec ...string) error {
	args := append([]string{}, f.cmd[1:]...)
	args = append(args, "-y", "-loglevel", "error", "-i", inPath)
	args = append(args, codec...)
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, f.cmd[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrTranscode, err, stderr.String())
	}
	if info, err := os.Stat(outPath); err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: no output produced for %s", ErrTranscode, inPath)
	}
	return nil
}
