package telegram

import (
	"context"
	"net/http"
	"time"

	"github.com/Vovarama1992/ranto_vox/internal/settings"
	"github.com/Vovarama1992/ranto_vox/internal/speech"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// botAPI: то, что хендлерам нужно от *tgbotapi.BotAPI
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type SpeechService interface {
	Recognize(ctx context.Context, oggPath, wavPath, lang string) (speech.Recognition, error)
	Speak(ctx context.Context, text string, voice speech.Gender, userID int64) (string, func(), error)
	VoicePaths(userID int64) (oggPath, wavPath string)
	RemoveFiles(paths ...string)
}

type ErrorNotifier interface {
	Notify(ctx context.Context, err error, details string)
}

// DurationFunc: длительность аудио в секундах (ffprobe).
type DurationFunc func(ctx context.Context, path string) (float64, error)

type Options struct {
	UpdateTimeout int
	// одновременно обрабатываемые апдейты (ffmpeg и движки тяжёлые)
	MaxParallel int
	// таймаут на один запрос TTS/STT
	RequestTimeout time.Duration
}

type BotApp struct {
	SpeechService   SpeechService
	SettingsService settings.Service
	ErrorNotify     ErrorNotifier
	Duration        DurationFunc

	bot     botAPI
	api     *tgbotapi.BotAPI
	httpCli *http.Client
	opts    Options
	log     *zap.Logger
}

func NewBotApp(
	speechSvc SpeechService,
	settingsSvc settings.Service,
	errNotify ErrorNotifier,
	duration DurationFunc,
	opts Options,
	log *zap.Logger,
) *BotApp {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.UpdateTimeout <= 0 {
		opts.UpdateTimeout = 30
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 4
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 2 * time.Minute
	}
	return &BotApp{
		SpeechService:   speechSvc,
		SettingsService: settingsSvc,
		ErrorNotify:     errNotify,
		Duration:        duration,
		httpCli:         &http.Client{Timeout: time.Minute},
		opts:            opts,
		log:             log,
	}
}

// InitBot логинится в Telegram; сам цикл запускает Run.
func (app *BotApp) InitBot(token string) error {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return err
	}
	app.api = bot
	app.bot = bot
	app.log.Info("[bot_app] successfully logged in Telegram", zap.String("username", bot.Self.UserName))
	return nil
}

func (app *BotApp) GetBot() *tgbotapi.BotAPI {
	return app.api
}

// Run блокируется до отмены ctx.
func (app *BotApp) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = app.opts.UpdateTimeout

	updates := app.api.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		app.api.StopReceivingUpdates()
	}()

	app.runBotLoop(ctx, updates)
}
