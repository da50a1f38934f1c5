package telegram

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/Vovarama1992/ranto_vox/internal/metrics"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// runBotLoop: главный цикл получения апдейтов
func (app *BotApp) runBotLoop(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	app.log.Info("[bot_loop] started")

	sem := make(chan struct{}, app.opts.MaxParallel)
	var wg sync.WaitGroup

	for update := range updates {
		tgID := extractTelegramID(update)
		if tgID == 0 {
			continue
		}

		app.log.Debug("[bot_touch]", zap.Int64("tg_id", tgID), zap.Int("update_id", update.UpdateID))

		sem <- struct{}{}
		wg.Add(1)
		go func(update tgbotapi.Update) {
			defer func() {
				<-sem
				wg.Done()
			}()
			app.dispatchUpdate(ctx, tgID, update)
		}(update)
	}

	wg.Wait()
	app.log.Info("[bot_loop] stopped")
}

func (app *BotApp) dispatchUpdate(ctx context.Context, tgID int64, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			app.log.Error("[bot_loop] panic in handler", zap.Int64("tg_id", tgID), zap.Any("panic", r))
		}
	}()

	switch {
	case update.Message != nil:
		app.handleMessage(ctx, update.Message, tgID)
	case update.CallbackQuery != nil:
		metrics.DefaultMetrics.Updates.WithLabelValues("callback").Inc()
		app.handleCallback(ctx, update.CallbackQuery)
	}
}

func (app *BotApp) handleMessage(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	// =====================================================
	// КОМАНДЫ
	// =====================================================
	if msg.IsCommand() {
		handled := true
		switch msg.Command() {
		case "start":
			app.handleStart(ctx, msg, tgID)
		case "help":
			app.handleHelp(ctx, msg, tgID)
		case "setvoice":
			app.showVoiceMenu(ctx, msg, tgID)
		case "setlang":
			app.showSTTLangMenu(ctx, msg, tgID)
		case "setlocale":
			app.showLocaleMenu(ctx, msg, tgID)
		default:
			handled = false
		}
		if handled {
			metrics.DefaultMetrics.Updates.WithLabelValues("command").Inc()
			return
		}
	}

	// =====================================================
	// ГОЛОС → ТЕКСТ / ТЕКСТ → ГОЛОС
	// =====================================================
	switch {
	case msg.Voice != nil:
		metrics.DefaultMetrics.Updates.WithLabelValues("voice").Inc()
		app.handleVoice(ctx, msg, tgID)
	case strings.TrimSpace(msg.Text) != "":
		metrics.DefaultMetrics.Updates.WithLabelValues("text").Inc()
		app.handleText(ctx, msg, tgID)
	default:
		metrics.DefaultMetrics.Updates.WithLabelValues("other").Inc()
	}
}

func extractTelegramID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID
	}
	return 0
}

// userTag: username#id для логов, как их пишет бот
func userTag(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return u.UserName + "#" + strconv.FormatInt(u.ID, 10)
	}
	return strconv.FormatInt(u.ID, 10)
}
