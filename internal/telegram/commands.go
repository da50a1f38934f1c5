package telegram

import (
	"context"

	"github.com/Vovarama1992/ranto_vox/internal/locale"
	"github.com/Vovarama1992/ranto_vox/internal/settings"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// /start: сброс настроек и приветствие на обоих языках
func (app *BotApp) handleStart(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	if _, err := app.SettingsService.Reset(ctx, tgID); err != nil {
		app.log.Error("[start] reset settings fail", zap.Int64("tg_id", tgID), zap.Error(err))
	}

	text := locale.Get(locale.Russian, locale.KeyStart) + "\n\n\n" + locale.Get(locale.English, locale.KeyStart)
	app.sendHTML(msg.Chat.ID, text, 0)
	app.log.Info("[start] user started the bot", zap.String("user", userTag(msg.From)))
}

func (app *BotApp) handleHelp(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	st := app.userSettings(ctx, tgID)
	app.sendHTML(msg.Chat.ID, locale.Get(st.BotLanguage, locale.KeyHelp), 0)
}

func (app *BotApp) showVoiceMenu(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	st := app.userSettings(ctx, tgID)

	out := tgbotapi.NewMessage(msg.Chat.ID,
		locale.Format(st.BotLanguage, locale.KeyVoiceGenderChoice, genderName(st.BotLanguage, st.VoiceGender)))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = buildVoiceKeyboard(st.BotLanguage, st.VoiceGender)
	app.send(out)
}

func (app *BotApp) showSTTLangMenu(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	st := app.userSettings(ctx, tgID)

	out := tgbotapi.NewMessage(msg.Chat.ID,
		locale.Format(st.BotLanguage, locale.KeySTTLangChoice, languageName(st.BotLanguage, st.STTLanguage)))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = buildLangKeyboard(st.BotLanguage, st.STTLanguage, cbRussianSTT, cbEnglishSTT, cbCancelSTT)
	app.send(out)
}

func (app *BotApp) showLocaleMenu(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	st := app.userSettings(ctx, tgID)

	out := tgbotapi.NewMessage(msg.Chat.ID,
		locale.Format(st.BotLanguage, locale.KeyBotLocaleChoice, languageName(st.BotLanguage, st.BotLanguage)))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = buildLangKeyboard(st.BotLanguage, st.BotLanguage, cbRussianBot, cbEnglishBot, cbCancelBot)
	app.send(out)
}

// userSettings: при ошибке хранилища работаем с настройками по умолчанию.
func (app *BotApp) userSettings(ctx context.Context, tgID int64) settings.Settings {
	st, err := app.SettingsService.Get(ctx, tgID)
	if err != nil {
		app.log.Error("[settings] get fail, using defaults", zap.Int64("tg_id", tgID), zap.Error(err))
		return settings.Defaults(tgID)
	}
	return st
}

func (app *BotApp) sendHTML(chatID int64, text string, replyTo int) {
	out := tgbotapi.NewMessage(chatID, text)
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyToMessageID = replyTo
	app.send(out)
}

func (app *BotApp) send(c tgbotapi.Chattable) {
	if _, err := app.bot.Send(c); err != nil {
		app.log.Warn("[send] fail", zap.Error(err))
	}
}
