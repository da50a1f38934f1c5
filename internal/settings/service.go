package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type service struct {
	repo Repo
}

func NewService(repo Repo) Service {
	return &service{repo: repo}
}

// Get: настройки пользователя; до /start действуют значения по умолчанию.
func (s *service) Get(ctx context.Context, telegramID int64) (Settings, error) {
	st, err := s.repo.Get(ctx, telegramID)
	if errors.Is(err, ErrNotFound) {
		return Defaults(telegramID), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return st, nil
}

func (s *service) Reset(ctx context.Context, telegramID int64) (Settings, error) {
	st := Defaults(telegramID)
	if err := s.repo.Save(ctx, st); err != nil {
		return Settings{}, fmt.Errorf("reset settings: %w", err)
	}
	return st, nil
}

func (s *service) SetBotLanguage(ctx context.Context, telegramID int64, lang string) (Settings, error) {
	lang, err := parseLanguage(lang)
	if err != nil {
		return Settings{}, err
	}
	return s.update(ctx, telegramID, func(st *Settings) { st.BotLanguage = lang })
}

func (s *service) SetSTTLanguage(ctx context.Context, telegramID int64, lang string) (Settings, error) {
	lang, err := parseLanguage(lang)
	if err != nil {
		return Settings{}, err
	}
	return s.update(ctx, telegramID, func(st *Settings) { st.STTLanguage = lang })
}

func (s *service) SetVoiceGender(ctx context.Context, telegramID int64, gender string) (Settings, error) {
	gender = strings.ToLower(strings.TrimSpace(gender))
	if gender != GenderMale && gender != GenderFemale {
		return Settings{}, fmt.Errorf("%w: %q", ErrUnknownGender, gender)
	}
	return s.update(ctx, telegramID, func(st *Settings) { st.VoiceGender = gender })
}

func (s *service) update(ctx context.Context, telegramID int64, apply func(*Settings)) (Settings, error) {
	st, err := s.Get(ctx, telegramID)
	if err != nil {
		return Settings{}, err
	}
	apply(&st)
	if err := s.repo.Save(ctx, st); err != nil {
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return st, nil
}

func parseLanguage(lang string) (string, error) {
	lang = strings.ToUpper(strings.TrimSpace(lang))
	switch lang {
	case LangRussian, LangEnglish:
		return lang, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
}
