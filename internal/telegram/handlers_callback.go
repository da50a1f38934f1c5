package telegram

import (
	"context"
	"errors"

	"github.com/Vovarama1992/ranto_vox/internal/locale"
	"github.com/Vovarama1992/ranto_vox/internal/settings"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (app *BotApp) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// всегда отвечаем Telegram
	if _, err := app.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		app.log.Debug("[callback] answer fail", zap.Error(err))
	}
	if cb.Message == nil || cb.From == nil {
		return
	}

	tgID := cb.From.ID
	chatID := cb.Message.Chat.ID
	st := app.userSettings(ctx, tgID)

	app.log.Info("[callback]", zap.Int64("tg_id", tgID), zap.String("data", cb.Data))

	// меню больше не нужно
	if _, err := app.bot.Request(tgbotapi.NewDeleteMessage(chatID, cb.Message.MessageID)); err != nil {
		app.log.Debug("[callback] delete menu fail", zap.Error(err))
	}

	var (
		text string
		err  error
	)

	switch cb.Data {
	// ---------------------------
	// пол озвучки
	// ---------------------------
	case cbMaleVoice, cbFemaleVoice:
		gender := settings.GenderMale
		if cb.Data == cbFemaleVoice {
			gender = settings.GenderFemale
		}
		if _, err = app.SettingsService.SetVoiceGender(ctx, tgID, gender); err == nil {
			text = locale.Format(st.BotLanguage, locale.KeyVoiceGenderChanged, genderName(st.BotLanguage, gender))
		}
	case cbCancelVoice:
		text = locale.Get(st.BotLanguage, locale.KeyVoiceGenderLeft)

	// ---------------------------
	// язык распознавания
	// ---------------------------
	case cbRussianSTT, cbEnglishSTT:
		lang := settings.LangRussian
		if cb.Data == cbEnglishSTT {
			lang = settings.LangEnglish
		}
		if _, err = app.SettingsService.SetSTTLanguage(ctx, tgID, lang); err == nil {
			text = locale.Format(st.BotLanguage, locale.KeySTTLangChanged, languageName(st.BotLanguage, lang))
		}
	case cbCancelSTT:
		text = locale.Get(st.BotLanguage, locale.KeySTTLangLeft)

	// ---------------------------
	// язык интерфейса: подтверждение уже на новом языке
	// ---------------------------
	case cbRussianBot, cbEnglishBot:
		lang := settings.LangRussian
		if cb.Data == cbEnglishBot {
			lang = settings.LangEnglish
		}
		if _, err = app.SettingsService.SetBotLanguage(ctx, tgID, lang); err == nil {
			text = locale.Format(lang, locale.KeyBotLocaleChanged, languageName(lang, lang))
		}
	case cbCancelBot:
		text = locale.Get(st.BotLanguage, locale.KeyBotLocaleLeft)

	default:
		err = errors.New("unknown callback data")
	}

	if err != nil {
		app.log.Warn("[callback] fail", zap.Int64("tg_id", tgID), zap.String("data", cb.Data), zap.Error(err))
		text = locale.Get(st.BotLanguage, locale.KeyRequestFailed)
	}
	app.sendHTML(chatID, text, 0)
}
