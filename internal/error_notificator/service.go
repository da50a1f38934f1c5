package error_notificator

import "context"

type Service struct {
	infra Notificator
}

func NewService(infra Notificator) *Service {
	return &Service{infra: infra}
}

// Notify не блокирует обработку апдейта: ошибка отправки только логируется в infra.
func (s *Service) Notify(ctx context.Context, err error, details string) {
	_ = s.infra.Notify(ctx, err, details)
}
