package speech

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TempFiles: временные аудиофайлы запросов. Имена уникальны за счёт uuid.
type TempFiles struct {
	dir string
	log *zap.Logger
}

func NewTempFiles(dir string, log *zap.Logger) *TempFiles {
	if log == nil {
		log = zap.NewNop()
	}
	return &TempFiles{dir: dir, log: log}
}

// Pair возвращает пару путей для одного запроса, исходник и результат конвертации.
func (t *TempFiles) Pair(prefix string, userID int64, inExt, outExt string) (string, string) {
	base := fmt.Sprintf("%s%d_%s", prefix, userID, uuid.NewString())
	return filepath.Join(t.dir, base+inExt), filepath.Join(t.dir, base+outExt)
}

func (t *TempFiles) Remove(paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			t.log.Warn("[tmp] remove failed", zap.String("path", p), zap.Error(err))
		}
	}
}

// CleanupStale удаляет .wav/.ogg, оставшиеся от прошлого запуска.
func (t *TempFiles) CleanupStale() (int, error) {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".wav" && ext != ".ogg" {
			continue
		}
		path := filepath.Join(t.dir, e.Name())
		if err := os.Remove(path); err != nil {
			t.log.Warn("[tmp] stale file remove failed", zap.String("path", path), zap.Error(err))
			continue
		}
		t.log.Warn("[tmp] old audio file was found and deleted", zap.String("file", e.Name()))
		removed++
	}
	return removed, nil
}
