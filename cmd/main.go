package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/ranto_vox/internal/config"
	"github.com/Vovarama1992/ranto_vox/internal/delivery"
	"github.com/Vovarama1992/ranto_vox/internal/error_notificator"
	"github.com/Vovarama1992/ranto_vox/internal/etp"
	"github.com/Vovarama1992/ranto_vox/internal/locale"
	"github.com/Vovarama1992/ranto_vox/internal/morph"
	"github.com/Vovarama1992/ranto_vox/internal/settings"
	"github.com/Vovarama1992/ranto_vox/internal/speech"
	"github.com/Vovarama1992/ranto_vox/internal/telegram"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / CONFIG
	// =========================================================================

	if err := godotenv.Load(); err != nil {
		log.Printf("[config] .env not loaded: %v", err)
	}

	cfg, err := config.Load(os.Getenv("RANTOVOX_CONFIG"))
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	if err := locale.CheckEquivalence(); err != nil {
		log.Fatalf("localization error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// SETTINGS STORAGE
	// =========================================================================

	settingsRepo := settings.NewMemoryRepo()
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			log.Fatalf("db ping failed: %v", err)
		}
		if err := settings.EnsureSchema(pingCtx, db); err != nil {
			log.Fatalf("db schema failed: %v", err)
		}
		cancel()

		settingsRepo = settings.NewPostgresRepo(db)
	} else {
		baseLogger.Warn("[settings] DATABASE_URL is not set, user settings are kept in memory")
	}
	settingsService := settings.NewService(settingsRepo)

	// =========================================================================
	// ETP
	// =========================================================================

	sources := make(map[string][]string)
	for _, lang := range cfg.Languages() {
		sources[lang] = cfg.LexiconPaths(lang)
	}

	registry, err := etp.LoadRegistry(sources)
	if err != nil {
		log.Fatalf("etp lexicons: %v", err)
	}

	analyzers := make(map[string]etp.Analyzer)
	for lang, command := range cfg.ETP.Analyzers {
		a, err := morph.NewExec(command, baseLogger)
		if err != nil {
			log.Fatalf("morph analyzer for %s: %v", lang, err)
		}
		defer a.Close()
		analyzers[lang] = a
	}

	normalizer := etp.NewNormalizer(cfg.ETP.Enabled, registry, analyzers, baseLogger)
	if cfg.ETP.Enabled {
		for _, lang := range normalizer.FallbackLanguages() {
			baseLogger.Warn("[etp] no morphological analyzer, only exact base forms will be capitalized",
				zap.String("lang", lang))
		}
	}

	if cfg.ETP.Enabled && cfg.ETP.Watch {
		watcher, err := etp.NewWatcher(registry, baseLogger)
		if err != nil {
			baseLogger.Warn("[etp] lexicon watcher is not started", zap.Error(err))
		} else {
			watcher.SetDebounceDuration(time.Duration(cfg.ETP.WatchDebounceMs) * time.Millisecond)
			go watcher.Run(ctx)
		}
	}

	// =========================================================================
	// SPEECH
	// =========================================================================

	models := speech.Models{}
	switch cfg.STT.Engine {
	case "whisper":
		client := openai.NewClient(cfg.OpenAI.APIKey)
		for _, lang := range []string{config.LangRussian, config.LangEnglish} {
			models[lang] = speech.NewWhisperModel(client, cfg.OpenAI.Model, lang)
		}
	case "deepgram":
		for _, lang := range []string{config.LangRussian, config.LangEnglish} {
			models[lang] = speech.NewDeepgramModel(cfg.STT.DeepgramAPIKey, lang)
		}
	default:
		for _, lang := range []string{config.LangRussian, config.LangEnglish} {
			if _, err := os.Stat(cfg.ModelPath(lang)); err != nil {
				log.Fatalf("language model folder for %s: %v", lang, err)
			}
			baseLogger.Info("[stt] language model is ready", zap.String("lang", lang), zap.String("path", cfg.ModelPath(lang)))
			m, err := speech.NewExecModel(cfg.STT.Command, cfg.ModelPath(lang))
			if err != nil {
				log.Fatalf("language model %s: %v", lang, err)
			}
			models[lang] = m
		}
	}

	var synth speech.Synthesizer
	switch cfg.TTS.Engine {
	case "elevenlabs":
		synth = speech.NewElevenLabsClient(cfg.TTS.ElevenLabsAPIKey, cfg.TTS.MaleVoice, cfg.TTS.FemaleVoice)
	default:
		s, err := speech.NewExecSynth(cfg.TTS.Command, cfg.TTS.MaleVoice, cfg.TTS.FemaleVoice, cfg.TTS.SampleRate, cfg.TTS.Channels)
		if err != nil {
			log.Fatalf("tts engine: %v", err)
		}
		synth = s
	}

	transcoder, err := speech.NewFFmpeg(cfg.FFmpeg.Command, cfg.STT.SampleRate)
	if err != nil {
		log.Fatalf("ffmpeg: %v", err)
	}

	files := speech.NewTempFiles(cfg.WorkDir, baseLogger)
	if _, err := files.CleanupStale(); err != nil {
		log.Fatalf("work dir: %v", err)
	}

	speechService := speech.NewService(models, synth, transcoder, normalizer, files, baseLogger)

	// =========================================================================
	// TELEGRAM BOT
	// =========================================================================

	errInfra := error_notificator.NewInfra("RantoVox", cfg.Telegram.AdminChatID, baseLogger)
	errService := error_notificator.NewService(errInfra)

	botApp := telegram.NewBotApp(
		speechService,
		settingsService,
		errService,
		func(ctx context.Context, path string) (float64, error) {
			return speech.AudioDuration(ctx, cfg.FFmpeg.ProbeCommand, path)
		},
		telegram.Options{
			UpdateTimeout:  cfg.Telegram.UpdateTimeout,
			MaxParallel:    cfg.Telegram.MaxParallel,
			RequestTimeout: cfg.Telegram.RequestTimeout(),
		},
		baseLogger,
	)

	if err := botApp.InitBot(cfg.Telegram.Token); err != nil {
		log.Fatalf("failed to init telegram bot: %v", err)
	}
	errInfra.SetBot(botApp.GetBot())

	go botApp.Run(ctx)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := delivery.NewRouter(
		delivery.NewETPHandler(normalizer, registry, zl),
		delivery.RouterOptions{
			RateLimitPerMinute: cfg.HTTP.RateLimit,
			EnableMetrics:      cfg.HTTP.EnableMetrics,
		},
	)

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "ranto_vox",
	})

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
