package morph

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"
)

// Exec: внешний анализатор (например, сайдкар с pymorphy). Процесс живёт всё время работы бота,
// на stdin получает слово на строку, на stdout отдаёт нормальную форму на строку.
type Exec struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	log    *zap.Logger
}

func NewExec(command string, log *zap.Logger) (*Exec, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse analyzer command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("analyzer command is empty")
	}

	cmd := exec.Command(args[0], args[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start analyzer: %w", err)
	}

	return newExec(cmd, stdin, stdout, log), nil
}

func newExec(cmd *exec.Cmd, stdin io.WriteCloser, stdout io.Reader, log *zap.Logger) *Exec {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exec{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		log:    log,
	}
}

// BaseForm не возвращает ошибок: при сбое анализатора берётся слово в нижнем регистре.
func (e *Exec) BaseForm(word string) string {
	fallback := strings.ToLower(word)
	if strings.ContainsAny(word, "\r\n") {
		return fallback
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := io.WriteString(e.stdin, word+"\n"); err != nil {
		e.log.Warn("[morph] write to analyzer failed", zap.Error(err))
		return fallback
	}
	line, err := e.stdout.ReadString('\n')
	if err != nil {
		e.log.Warn("[morph] read from analyzer failed", zap.Error(err))
		return fallback
	}
	base := strings.TrimRight(line, "\r\n")
	if base == "" {
		return fallback
	}
	return base
}

func (e *Exec) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stdin.Close()
	if e.cmd == nil || e.cmd.Process == nil {
		return nil
	}
	return e.cmd.Wait()
}
