package settings

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// === Postgres ===

type pgRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) Repo {
	return &pgRepo{db: db}
}

// EnsureSchema создаёт таблицу, если её ещё нет.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_settings (
			telegram_id  BIGINT PRIMARY KEY,
			bot_language TEXT NOT NULL,
			stt_language TEXT NOT NULL,
			voice_gender TEXT NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (r *pgRepo) Get(ctx context.Context, telegramID int64) (Settings, error) {
	s := Settings{TelegramID: telegramID}
	err := r.db.QueryRowContext(ctx, `
		SELECT bot_language, stt_language, voice_gender
		FROM user_settings
		WHERE telegram_id = $1
	`, telegramID).Scan(&s.BotLanguage, &s.STTLanguage, &s.VoiceGender)

	if errors.Is(err, sql.ErrNoRows) {
		return Settings{}, ErrNotFound
	}
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (r *pgRepo) Save(ctx context.Context, s Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_settings (telegram_id, bot_language, stt_language, voice_gender)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_id) DO UPDATE
		SET bot_language = EXCLUDED.bot_language,
		    stt_language = EXCLUDED.stt_language,
		    voice_gender = EXCLUDED.voice_gender,
		    updated_at   = now()
	`, s.TelegramID, s.BotLanguage, s.STTLanguage, s.VoiceGender)
	return err
}

// === Память (без DATABASE_URL) ===

type memoryRepo struct {
	mu    sync.RWMutex
	items map[int64]Settings
}

func NewMemoryRepo() Repo {
	return &memoryRepo{items: make(map[int64]Settings)}
}

func (r *memoryRepo) Get(_ context.Context, telegramID int64) (Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[telegramID]
	if !ok {
		return Settings{}, ErrNotFound
	}
	return s, nil
}

func (r *memoryRepo) Save(_ context.Context, s Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[s.TelegramID] = s
	return nil
}
