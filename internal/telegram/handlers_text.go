package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vovarama1992/ranto_vox/internal/locale"
	"github.com/Vovarama1992/ranto_vox/internal/speech"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleText: текст → голос
func (app *BotApp) handleText(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	chatID := msg.Chat.ID
	st := app.userSettings(ctx, tgID)

	if strings.Contains(msg.Text, "/start") {
		app.sendHTML(chatID, locale.Get(st.BotLanguage, locale.KeyStartAgain), 0)
		return
	}

	voice, ok := speech.ParseGender(st.VoiceGender)
	if !ok {
		voice = speech.GenderMale
	}

	app.log.Info("[tts] start", zap.Int64("tg_id", tgID), zap.String("voice", string(voice)))

	ctx, cancel := context.WithTimeout(ctx, app.opts.RequestTimeout)
	defer cancel()

	oggPath, cleanup, err := app.SpeechService.Speak(ctx, msg.Text, voice, tgID)
	if err != nil {
		app.log.Error("[tts] failed to convert text to voice", zap.String("user", userTag(msg.From)), zap.Error(err))
		app.notify(ctx, err, fmt.Sprintf("TTS\n\nПользователь: %d", tgID))
		app.sendHTML(chatID, locale.Get(st.BotLanguage, locale.KeyRequestFailed), msg.MessageID)
		return
	}
	defer cleanup()

	out := tgbotapi.NewVoice(chatID, tgbotapi.FilePath(oggPath))
	out.ReplyToMessageID = msg.MessageID
	if app.Duration != nil {
		if d, err := app.Duration(ctx, oggPath); err == nil {
			out.Duration = int(d + 0.5)
		}
	}

	if _, err := app.bot.Send(out); err != nil {
		app.log.Error("[tts] send voice fail", zap.Int64("tg_id", tgID), zap.Error(err))
		return
	}

	app.log.Info("[tts] performed TTS request", zap.String("user", userTag(msg.From)))
}

func (app *BotApp) notify(ctx context.Context, err error, details string) {
	if app.ErrorNotify != nil {
		app.ErrorNotify.Notify(ctx, err, details)
	}
}
