package etp

import "unicode"

// Alphabet: заглавные буквы письменности языка.
type Alphabet map[rune]struct{}

func NewAlphabet(letters string) Alphabet {
	a := make(Alphabet, len(letters))
	for _, r := range letters {
		a[unicode.ToUpper(r)] = struct{}{}
	}
	return a
}

// Contains сравнивает без учёта регистра.
func (a Alphabet) Contains(r rune) bool {
	_, ok := a[unicode.ToUpper(r)]
	return ok
}

var builtinAlphabets = map[string]Alphabet{
	"RUSSIAN": NewAlphabet("АБВГДЕЁЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯ"),
	"ENGLISH": NewAlphabet("ABCDEFGHIJKLMNOPQRSTUVWXYZ"),
}

// BuiltinAlphabet возвращает алфавит поддерживаемого языка.
func BuiltinAlphabet(lang string) (Alphabet, bool) {
	a, ok := builtinAlphabets[lang]
	return a, ok
}
