package settings

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("settings not found")
	ErrUnknownLanguage = errors.New("unknown language")
	ErrUnknownGender   = errors.New("unknown voice gender")
)

const (
	LangRussian = "RUSSIAN"
	LangEnglish = "ENGLISH"

	GenderMale   = "male"
	GenderFemale = "female"
)

// Settings: состояние пользователя, выставляется при /start.
type Settings struct {
	TelegramID  int64  `json:"telegram_id"`
	BotLanguage string `json:"bot_language"`
	STTLanguage string `json:"stt_language"`
	VoiceGender string `json:"voice_gender"`
}

func Defaults(telegramID int64) Settings {
	return Settings{
		TelegramID:  telegramID,
		BotLanguage: LangRussian,
		STTLanguage: LangRussian,
		VoiceGender: GenderMale,
	}
}

// Repo: хранилище настроек (Postgres или память)
type Repo interface {
	Get(ctx context.Context, telegramID int64) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// Service: бизнес-операции
type Service interface {
	Get(ctx context.Context, telegramID int64) (Settings, error)
	Reset(ctx context.Context, telegramID int64) (Settings, error)
	SetBotLanguage(ctx context.Context, telegramID int64, lang string) (Settings, error)
	SetSTTLanguage(ctx context.Context, telegramID int64, lang string) (Settings, error)
	SetVoiceGender(ctx context.Context, telegramID int64, gender string) (Settings, error)
}
