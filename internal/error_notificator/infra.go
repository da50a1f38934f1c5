package error_notificator

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Infra struct {
	mu          sync.RWMutex
	bot         Sender
	botName     string
	adminChatID int64
	log         *zap.Logger
}

// NewInfra: adminChatID == 0 → уведомления выключены.
func NewInfra(botName string, adminChatID int64, log *zap.Logger) *Infra {
	if log == nil {
		log = zap.NewNop()
	}
	return &Infra{botName: botName, adminChatID: adminChatID, log: log}
}

// SetBot: позволяет передать бота ПОСЛЕ того, как он инициализировался
func (i *Infra) SetBot(bot Sender) {
	i.mu.Lock()
	i.bot = bot
	i.mu.Unlock()
}

func (i *Infra) Notify(ctx context.Context, err error, details string) error {
	if i.adminChatID == 0 {
		return nil
	}

	i.mu.RLock()
	bot := i.bot
	i.mu.RUnlock()

	if bot == nil {
		i.log.Warn("[error_notificator] bot is not set yet", zap.Error(err))
		return fmt.Errorf("bot not set")
	}

	text := fmt.Sprintf(
		"❗ Ошибка в боте (%s)\n\nОшибка: %v\n\nДетали: %s",
		i.botName,
		err,
		details,
	)

	if _, sendErr := bot.Send(tgbotapi.NewMessage(i.adminChatID, text)); sendErr != nil {
		i.log.Error("[error_notificator] send fail", zap.Int64("chat_id", i.adminChatID), zap.Error(sendErr))
		return sendErr
	}
	return nil
}
