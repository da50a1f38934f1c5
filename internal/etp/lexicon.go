package etp

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Lexicon: множество нормальных форм имён собственных (в нижнем регистре).
type Lexicon struct {
	tag     language.Tag
	entries map[string]struct{}
}

var languageTags = map[string]language.Tag{
	"RUSSIAN": language.Russian,
	"ENGLISH": language.English,
}

func tagFor(lang string) language.Tag {
	if tag, ok := languageTags[lang]; ok {
		return tag
	}
	return language.Und
}

func NewLexicon(lang string, entries ...string) *Lexicon {
	l := &Lexicon{
		tag:     tagFor(lang),
		entries: make(map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		l.add(e)
	}
	return l
}

// LoadLexicon читает все файлы и сливает их в один лексикон
// (для русского: имена + фамилии). Одна запись на строку, UTF-8.
func LoadLexicon(lang string, paths ...string) (*Lexicon, error) {
	l := NewLexicon(lang)
	for _, path := range paths {
		if err := l.loadFile(path); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Lexicon) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open lexicon %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		l.add(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return nil
}

func (l *Lexicon) add(entry string) {
	entry = strings.TrimRight(entry, "\r\n")
	if entry == "" {
		return
	}
	l.entries[l.fold(entry)] = struct{}{}
}

// Caser хранит состояние, поэтому создаётся на каждый вызов.
func (l *Lexicon) fold(s string) string {
	return cases.Lower(l.tag).String(norm.NFC.String(s))
}

func (l *Lexicon) Contains(baseForm string) bool {
	if baseForm == "" {
		return false
	}
	_, ok := l.entries[l.fold(baseForm)]
	return ok
}

func (l *Lexicon) Len() int {
	return len(l.entries)
}
