package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("RU_LANG_MODEL_DIRNAME", "vosk-model-small-ru-0.22")
	t.Setenv("ENG_LANG_MODEL_DIRNAME", "vosk-model-small-en-us-0.15")
	t.Setenv("MALE_VOICE_NAME", "Aleksandr")
	t.Setenv("FEMALE_VOICE_NAME", "Elena")
}

func TestLoadDefaultsWithEnv(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.HTTP.Port)
	}
	if !cfg.ETP.Enabled {
		t.Fatal("expected etp enabled by default")
	}
	if got := cfg.ModelPath("english"); got != filepath.Join("src", "lang", "vosk-model-small-en-us-0.15") {
		t.Fatalf("unexpected english model path %q", got)
	}
	if got := cfg.ModelPath("russian"); got != filepath.Join("src", "lang", "vosk-model-small-ru-0.22") {
		t.Fatalf("unexpected russian model path %q", got)
	}
	paths := cfg.LexiconPaths("RUSSIAN")
	if len(paths) != 2 || paths[0] != filepath.Join("src", "etp", "russian_names.txt") {
		t.Fatalf("unexpected russian lexicon paths %v", paths)
	}
}

func TestETPDisabledByEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ETP_ENABLED", "False")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ETP.Enabled {
		t.Fatal("expected ETP_ENABLED=False to disable etp")
	}
}

func TestMissingTokenIsInvalid(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := Load("")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestMissingModelIsInvalid(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("MALE_VOICE_NAME", "Aleksandr")
	t.Setenv("FEMALE_VOICE_NAME", "Elena")
	t.Setenv("RU_LANG_MODEL_DIRNAME", "ru")

	_, err := Load("")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for missing english model, got %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "rantovox.yaml")
	data := []byte(`
http:
  port: "9090"
etp:
  dir: /opt/etp
  lexicons:
    russian: [russian_names.txt, russian_surnames.txt]
    english: [english_names.txt, english_surnames.txt]
  analyzers:
    russian: "pymorphy-sidecar --lang ru"
tts:
  engine: ElevenLabs
  elevenlabs_api_key: key
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != "9090" {
		t.Fatalf("expected yaml port, got %q", cfg.HTTP.Port)
	}
	if cfg.TTS.Engine != "elevenlabs" {
		t.Fatalf("expected engine to be lower-cased, got %q", cfg.TTS.Engine)
	}
	if got := cfg.LexiconPaths("ENGLISH"); len(got) != 2 || got[1] != "/opt/etp/english_surnames.txt" {
		t.Fatalf("unexpected english lexicon paths %v", got)
	}
	if cfg.ETP.Analyzers[LangRussian] == "" {
		t.Fatal("expected analyzer keys to be upper-cased")
	}
	if langs := cfg.Languages(); len(langs) != 2 || langs[0] != LangEnglish {
		t.Fatalf("unexpected languages %v", langs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	setRequiredEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestCloudSTTEnginesNeedKeys(t *testing.T) {
	tests := []struct {
		engine, envKey string
	}{
		{"whisper", "OPENAI_API_KEY"},
		{"Deepgram", "DEEPGRAM_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("STT_ENGINE", tt.engine)
			t.Setenv(tt.envKey, "")

			if _, err := Load(""); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid without %s, got %v", tt.envKey, err)
			}

			t.Setenv(tt.envKey, "secret")
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.STT.Engine == "" || cfg.STT.Engine != strings.ToLower(tt.engine) {
				t.Fatalf("unexpected engine %q", cfg.STT.Engine)
			}
		})
	}
}

func TestBotConcurrencyLimits(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telegram.MaxParallel != 4 || cfg.Telegram.RequestTimeout() != 2*time.Minute {
		t.Fatalf("unexpected defaults %d, %s", cfg.Telegram.MaxParallel, cfg.Telegram.RequestTimeout())
	}
	if cfg.ETP.WatchDebounceMs != 500 {
		t.Fatalf("unexpected watch debounce %d", cfg.ETP.WatchDebounceMs)
	}

	path := filepath.Join(t.TempDir(), "rantovox.yaml")
	data := []byte(`
telegram:
  max_parallel: 16
  request_timeout_sec: 30
etp:
  watch_debounce_ms: 1500
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telegram.MaxParallel != 16 || cfg.Telegram.RequestTimeout() != 30*time.Second || cfg.ETP.WatchDebounceMs != 1500 {
		t.Fatalf("yaml values not applied: %+v %+v", cfg.Telegram, cfg.ETP)
	}

	t.Setenv("BOT_MAX_PARALLEL", "2")
	t.Setenv("BOT_REQUEST_TIMEOUT_SEC", "45")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telegram.MaxParallel != 2 || cfg.Telegram.RequestTimeout() != 45*time.Second {
		t.Fatalf("env overrides not applied: %+v", cfg.Telegram)
	}

	t.Setenv("BOT_MAX_PARALLEL", "0")
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for zero max_parallel, got %v", err)
	}
}
