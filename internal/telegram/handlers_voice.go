package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Vovarama1992/ranto_vox/internal/locale"
	"github.com/Vovarama1992/ranto_vox/internal/speech"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleVoice: голос → текст
func (app *BotApp) handleVoice(ctx context.Context, msg *tgbotapi.Message, tgID int64) {
	chatID := msg.Chat.ID
	st := app.userSettings(ctx, tgID)

	app.log.Info("[stt] start",
		zap.Int64("tg_id", tgID),
		zap.String("lang", st.STTLanguage),
		zap.Int("duration", msg.Voice.Duration),
	)

	ctx, cancel := context.WithTimeout(ctx, app.opts.RequestTimeout)
	defer cancel()

	oggPath, wavPath := app.SpeechService.VoicePaths(tgID)
	defer app.SpeechService.RemoveFiles(oggPath, wavPath)

	if err := app.downloadVoice(ctx, msg.Voice.FileID, oggPath); err != nil {
		app.log.Error("[stt] download fail", zap.Int64("tg_id", tgID), zap.Error(err))
		app.sendHTML(chatID, locale.Get(st.BotLanguage, locale.KeyRequestFailed), msg.MessageID)
		return
	}

	rec, err := app.SpeechService.Recognize(ctx, oggPath, wavPath, st.STTLanguage)
	if err != nil {
		app.log.Error("[stt] an error occurred while converting a voice message", zap.String("user", userTag(msg.From)), zap.Error(err))
		app.notify(ctx, err, fmt.Sprintf("STT\n\nПользователь: %d\nЯзык: %s", tgID, st.STTLanguage))
		app.sendHTML(chatID, locale.Get(st.BotLanguage, locale.KeyRequestFailed), msg.MessageID)
		return
	}

	if rec.Outcome != speech.OutcomeRecognized {
		app.log.Warn("[stt] no speech found in a voice message",
			zap.String("user", userTag(msg.From)),
			zap.String("outcome", rec.Outcome.String()),
		)
		app.sendHTML(chatID, locale.Get(st.BotLanguage, locale.KeyNoSpeechFound), msg.MessageID)
		return
	}

	// распознанный текст отправляем без разметки
	out := tgbotapi.NewMessage(chatID, rec.Text)
	out.ReplyToMessageID = msg.MessageID
	app.send(out)

	app.log.Info("[stt] performed STT request",
		zap.String("user", userTag(msg.From)),
		zap.String("etp", string(rec.ETPStatus)),
	)
}

func (app *BotApp) downloadVoice(ctx context.Context, fileID, path string) error {
	url, err := app.bot.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("get file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := app.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
