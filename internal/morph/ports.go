// Package morph: морфологические анализаторы для ETP.
package morph

import "strings"

// Lowercase: нормальная форма = слово в нижнем регистре. Годится как запасной
// вариант, когда внешнего анализатора для языка нет.
type Lowercase struct{}

func (Lowercase) BaseForm(word string) string {
	return strings.ToLower(word)
}
