package etp

// Analyzer это морфологический анализатор, слово → словарная (нормальная) форма.
// Реализация не должна падать: для неразобранного слова возвращается лучшая догадка.
type Analyzer interface {
	BaseForm(word string) string
}

// Status: чем закончилась обработка текста.
type Status string

const (
	StatusApplied     Status = "applied"
	StatusDisabled    Status = "disabled"
	StatusUnsupported Status = "unsupported"
)

type Result struct {
	Text   string
	Status Status
}

// Warning: обработка не выполнялась и возвращён сырой текст.
func (r Result) Warning() bool {
	return r.Status != StatusApplied
}
