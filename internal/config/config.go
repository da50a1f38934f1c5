package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid: конфигурация не прошла проверку при загрузке.
var ErrInvalid = errors.New("invalid config")

const (
	LangRussian = "RUSSIAN"
	LangEnglish = "ENGLISH"
)

type HTTPConfig struct {
	Port          string `yaml:"port"`
	RateLimit     int    `yaml:"rate_limit_per_minute"`
	EnableMetrics bool   `yaml:"enable_metrics"`
}

type TelegramConfig struct {
	Token         string `yaml:"token"`
	AdminChatID   int64  `yaml:"admin_chat_id"`
	UpdateTimeout int    `yaml:"update_timeout"`
	// одновременно обрабатываемые апдейты
	MaxParallel int `yaml:"max_parallel"`
	// таймаут одного запроса STT/TTS, секунды
	RequestTimeoutSec int `yaml:"request_timeout_sec"`
}

func (t TelegramConfig) RequestTimeout() time.Duration {
	return time.Duration(t.RequestTimeoutSec) * time.Second
}

type DatabaseConfig struct {
	// пустой URL → настройки пользователей хранятся в памяти
	URL string `yaml:"url"`
}

type STTConfig struct {
	Engine         string            `yaml:"engine"` // exec, whisper, deepgram
	Command        string            `yaml:"command"`
	ModelsDir      string            `yaml:"models_dir"`
	Models         map[string]string `yaml:"models"`
	SampleRate     int               `yaml:"sample_rate"`
	DeepgramAPIKey string            `yaml:"deepgram_api_key"`
}

type TTSConfig struct {
	Engine           string `yaml:"engine"` // exec, elevenlabs
	Command          string `yaml:"command"`
	MaleVoice        string `yaml:"male_voice"`
	FemaleVoice      string `yaml:"female_voice"`
	SampleRate       int    `yaml:"sample_rate"`
	Channels         int    `yaml:"channels"`
	ElevenLabsAPIKey string `yaml:"elevenlabs_api_key"`
}

type ETPConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Dir       string              `yaml:"dir"`
	Lexicons  map[string][]string `yaml:"lexicons"`
	Analyzers map[string]string   `yaml:"analyzers"`
	Watch     bool                `yaml:"watch"`
	// пауза после последней записи в файл лексикона перед перезагрузкой
	WatchDebounceMs int `yaml:"watch_debounce_ms"`
}

type FFmpegConfig struct {
	Command      string `yaml:"command"`
	ProbeCommand string `yaml:"probe_command"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Telegram TelegramConfig `yaml:"telegram"`
	Database DatabaseConfig `yaml:"database"`
	WorkDir  string         `yaml:"work_dir"`
	STT      STTConfig      `yaml:"stt"`
	TTS      TTSConfig      `yaml:"tts"`
	ETP      ETPConfig      `yaml:"etp"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:          "8080",
			RateLimit:     60,
			EnableMetrics: true,
		},
		Telegram: TelegramConfig{
			UpdateTimeout:     30,
			MaxParallel:       4,
			RequestTimeoutSec: 120,
		},
		WorkDir: ".",
		STT: STTConfig{
			Engine:     "exec",
			Command:    "vosk-recognizer",
			ModelsDir:  filepath.Join("src", "lang"),
			Models:     map[string]string{},
			SampleRate: 16000,
		},
		TTS: TTSConfig{
			Engine:     "exec",
			Command:    "rhvoice-synth",
			SampleRate: 24000,
			Channels:   1,
		},
		ETP: ETPConfig{
			Enabled: true,
			Dir:     filepath.Join("src", "etp"),
			Lexicons: map[string][]string{
				LangRussian: {"russian_names.txt", "russian_surnames.txt"},
				LangEnglish: {"english_names.txt"},
			},
			Analyzers:       map[string]string{},
			Watch:           true,
			WatchDebounceMs: 500,
		},
		FFmpeg: FFmpegConfig{
			Command:      "ffmpeg",
			ProbeCommand: "ffprobe",
		},
		OpenAI: OpenAIConfig{
			Model: "whisper-1",
		},
	}
}

// Load читает YAML (если путь задан) поверх дефолтов, применяет ENV и валидирует результат.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		// лексиконы из файла заменяют дефолтные целиком, а не дополняют их
		defaults := cfg.ETP.Lexicons
		cfg.ETP.Lexicons = nil
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
		if cfg.ETP.Lexicons == nil {
			cfg.ETP.Lexicons = defaults
		}
	}

	applyEnvOverrides(&cfg)
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.HTTP.Port, "PORT")
	overrideString(&cfg.Telegram.Token, "TELEGRAM_TOKEN")
	overrideInt64(&cfg.Telegram.AdminChatID, "ADMIN_CHAT_ID")
	overrideInt(&cfg.Telegram.MaxParallel, "BOT_MAX_PARALLEL")
	overrideInt(&cfg.Telegram.RequestTimeoutSec, "BOT_REQUEST_TIMEOUT_SEC")
	overrideString(&cfg.Database.URL, "DATABASE_URL")
	overrideString(&cfg.WorkDir, "WORK_DIR")
	overrideString(&cfg.STT.Engine, "STT_ENGINE")
	overrideString(&cfg.STT.Command, "STT_COMMAND")
	overrideMapEntry(&cfg.STT.Models, LangRussian, "RU_LANG_MODEL_DIRNAME")
	overrideMapEntry(&cfg.STT.Models, LangEnglish, "ENG_LANG_MODEL_DIRNAME")
	overrideString(&cfg.TTS.Engine, "TTS_ENGINE")
	overrideString(&cfg.TTS.Command, "TTS_COMMAND")
	overrideString(&cfg.TTS.MaleVoice, "MALE_VOICE_NAME")
	overrideString(&cfg.TTS.FemaleVoice, "FEMALE_VOICE_NAME")
	overrideString(&cfg.TTS.ElevenLabsAPIKey, "ELEVENLABS_API_KEY")
	overrideBool(&cfg.ETP.Enabled, "ETP_ENABLED")
	overrideString(&cfg.ETP.Dir, "ETP_DIR")
	overrideString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	overrideString(&cfg.STT.DeepgramAPIKey, "DEEPGRAM_API_KEY")
}

// normalize приводит ключи языков к верхнему регистру.
func (c *Config) normalize() {
	c.STT.Models = upperKeys(c.STT.Models)
	c.ETP.Lexicons = upperKeys(c.ETP.Lexicons)
	c.ETP.Analyzers = upperKeys(c.ETP.Analyzers)
	c.STT.Engine = strings.ToLower(strings.TrimSpace(c.STT.Engine))
	c.TTS.Engine = strings.ToLower(strings.TrimSpace(c.TTS.Engine))
}

func (c Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("%w: token for accessing Telegram is not set (TELEGRAM_TOKEN)", ErrInvalid)
	}
	if c.HTTP.Port == "" {
		return fmt.Errorf("%w: http.port must not be empty", ErrInvalid)
	}
	if c.Telegram.MaxParallel <= 0 {
		return fmt.Errorf("%w: telegram.max_parallel must be positive", ErrInvalid)
	}
	if c.Telegram.RequestTimeoutSec <= 0 {
		return fmt.Errorf("%w: telegram.request_timeout_sec must be positive", ErrInvalid)
	}
	if c.WorkDir == "" {
		return fmt.Errorf("%w: work_dir must not be empty", ErrInvalid)
	}

	switch c.STT.Engine {
	case "exec":
		if c.STT.Command == "" {
			return fmt.Errorf("%w: stt.command must be set when engine=exec", ErrInvalid)
		}
		for _, lang := range []string{LangRussian, LangEnglish} {
			if c.STT.Models[lang] == "" {
				return fmt.Errorf("%w: language model folder for %s is not set", ErrInvalid, lang)
			}
		}
	case "whisper":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%w: openai.api_key must be set when stt engine=whisper", ErrInvalid)
		}
	case "deepgram":
		if c.STT.DeepgramAPIKey == "" {
			return fmt.Errorf("%w: stt.deepgram_api_key must be set when engine=deepgram", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: stt.engine must be one of exec|whisper|deepgram", ErrInvalid)
	}
	if c.STT.SampleRate <= 0 {
		return fmt.Errorf("%w: stt.sample_rate must be positive", ErrInvalid)
	}

	switch c.TTS.Engine {
	case "exec":
		if c.TTS.Command == "" {
			return fmt.Errorf("%w: tts.command must be set when engine=exec", ErrInvalid)
		}
	case "elevenlabs":
		if c.TTS.ElevenLabsAPIKey == "" {
			return fmt.Errorf("%w: tts.elevenlabs_api_key must be set when engine=elevenlabs", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: tts.engine must be one of exec|elevenlabs", ErrInvalid)
	}
	if c.TTS.MaleVoice == "" || c.TTS.FemaleVoice == "" {
		return fmt.Errorf("%w: both male and female voice names must be set", ErrInvalid)
	}
	if c.TTS.SampleRate <= 0 || c.TTS.Channels <= 0 {
		return fmt.Errorf("%w: tts.sample_rate and tts.channels must be positive", ErrInvalid)
	}

	for _, lang := range []string{LangRussian, LangEnglish} {
		if len(c.ETP.Lexicons[lang]) == 0 {
			return fmt.Errorf("%w: etp.lexicons has no files for %s", ErrInvalid, lang)
		}
	}
	return nil
}

// ModelPath: полный путь к папке языковой модели.
func (c Config) ModelPath(lang string) string {
	dir := c.STT.Models[strings.ToUpper(lang)]
	if dir == "" {
		return ""
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.STT.ModelsDir, dir)
}

// LexiconPaths: файлы лексикона языка с учётом etp.dir.
func (c Config) LexiconPaths(lang string) []string {
	files := c.ETP.Lexicons[strings.ToUpper(lang)]
	out := make([]string, 0, len(files))
	for _, f := range files {
		if filepath.IsAbs(f) {
			out = append(out, f)
			continue
		}
		out = append(out, filepath.Join(c.ETP.Dir, f))
	}
	return out
}

// Languages: языки, для которых заданы лексиконы ETP.
func (c Config) Languages() []string {
	out := make([]string, 0, len(c.ETP.Lexicons))
	for lang := range c.ETP.Lexicons {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt64(target *int64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			*target = parsed
		}
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}

func overrideMapEntry(target *map[string]string, key, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		if *target == nil {
			*target = map[string]string{}
		}
		(*target)[key] = value
	}
}

func upperKeys[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return out
}
