package speech

import (
	"fmt"
	"strings"
)

// Models: языковые модели, загруженные один раз при старте.
// После сборки только читается, поэтому безопасна для конкурентного доступа.
type Models map[string]Model

func (m Models) Get(lang string) (Model, error) {
	model, ok := m[strings.ToUpper(lang)]
	if !ok || model == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, lang)
	}
	return model, nil
}
