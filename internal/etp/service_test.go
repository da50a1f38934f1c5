package etp

import (
	"strings"
	"testing"
)

type mapAnalyzer map[string]string

func (m mapAnalyzer) BaseForm(word string) string {
	if base, ok := m[word]; ok {
		return base
	}
	return strings.ToLower(word)
}

func newTestNormalizer(t *testing.T, enabled bool, analyzers map[string]Analyzer) *Normalizer {
	t.Helper()
	r := NewRegistry()
	ru, _ := BuiltinAlphabet("RUSSIAN")
	en, _ := BuiltinAlphabet("ENGLISH")
	r.Put(&Language{Name: "RUSSIAN", Alphabet: ru, Lexicon: NewLexicon("RUSSIAN", "иван", "петров")})
	r.Put(&Language{Name: "ENGLISH", Alphabet: en, Lexicon: NewLexicon("ENGLISH", "smith", "mcdonald")})
	return NewNormalizer(enabled, r, analyzers, nil)
}

func TestNormalize(t *testing.T) {
	n := newTestNormalizer(t, true, map[string]Analyzer{
		"russian": mapAnalyzer{"ивана": "иван", "петровым": "петров"},
	})

	tests := []struct {
		name string
		raw  string
		lang string
		want string
	}{
		{"russian name first", " иван пошел домой", "RUSSIAN", "Иван пошел домой"},
		{"english surname first", " smith went home", "ENGLISH", "Smith went home"},
		{"language is case-insensitive", " smith went home", "english", "Smith went home"},
		{"inflected name via base form", " встретил ивана с петровым", "RUSSIAN", "Встретил Ивана с Петровым"},
		{"first word not a name still capitalized", " привет мир", "RUSSIAN", "Привет мир"},
		{"foreign script first word untouched", " hello иван", "RUSSIAN", "hello Иван"},
		{"internal casing preserved", " met mcDonald", "ENGLISH", "Met McDonald"},
		{"newline sentinel", "\nsmith", "ENGLISH", "Smith"},
		{"empty tokens preserved", "  иван  петров ", "RUSSIAN", " Иван  Петров "},
		{"no sentence detection after newline", " hello\nsmith went", "ENGLISH", "Hello\nsmith went"},
		{"sentinel only", " ", "ENGLISH", ""},
		{"empty input", "", "ENGLISH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := n.Normalize(tt.raw, tt.lang)
			if res.Text != tt.want {
				t.Fatalf("Normalize(%q, %s) = %q, want %q", tt.raw, tt.lang, res.Text, tt.want)
			}
			if res.Status != StatusApplied {
				t.Fatalf("expected status applied, got %s", res.Status)
			}
		})
	}
}

func TestNormalizeDisabled(t *testing.T) {
	n := newTestNormalizer(t, false, nil)

	res := n.Normalize(" иван пошел домой", "RUSSIAN")
	if res.Text != "иван пошел домой" {
		t.Fatalf("expected raw text without sentinel, got %q", res.Text)
	}
	if res.Status != StatusDisabled || !res.Warning() {
		t.Fatalf("expected disabled warning, got %s", res.Status)
	}
}

func TestNormalizeUnsupportedLanguage(t *testing.T) {
	n := newTestNormalizer(t, true, nil)
	disabled := newTestNormalizer(t, false, nil)

	raw := " qapla' batlh"
	res := n.Normalize(raw, "KLINGON")
	if res.Text != "qapla' batlh" {
		t.Fatalf("expected raw text without sentinel, got %q", res.Text)
	}
	if res.Status != StatusUnsupported || !res.Warning() {
		t.Fatalf("expected unsupported warning, got %s", res.Status)
	}
	if other := disabled.Normalize(raw, "RUSSIAN"); other.Text != res.Text {
		t.Fatalf("unsupported and disabled paths differ: %q vs %q", res.Text, other.Text)
	}
}

func TestNormalizeIsNotIdempotent(t *testing.T) {
	n := newTestNormalizer(t, true, nil)

	first := n.Normalize(" иван пошел домой", "RUSSIAN").Text
	second := n.Normalize(first, "RUSSIAN").Text

	if first != "Иван пошел домой" {
		t.Fatalf("unexpected first pass %q", first)
	}
	if second == first {
		t.Fatal("second pass must strip a real character")
	}
	if second != "Ван пошел домой" {
		t.Fatalf("unexpected second pass %q", second)
	}
}

func TestNormalizeUsesCurrentLexiconAfterPut(t *testing.T) {
	n := newTestNormalizer(t, true, nil)
	if got := n.Normalize(" пошел к сидорову", "RUSSIAN").Text; got != "Пошел к сидорову" {
		t.Fatalf("unexpected %q", got)
	}

	ru, _ := BuiltinAlphabet("RUSSIAN")
	n.registry.Put(&Language{Name: "RUSSIAN", Alphabet: ru, Lexicon: NewLexicon("RUSSIAN", "сидорову")})

	if got := n.Normalize(" пошел к сидорову", "RUSSIAN").Text; got != "Пошел к Сидорову" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestInflectedNamesNeedAnalyzer(t *testing.T) {
	bare := newTestNormalizer(t, true, nil)
	if got := bare.Normalize(" позвал ивана", "RUSSIAN").Text; got != "Позвал ивана" {
		t.Fatalf("lowercase fallback must not match inflected forms, got %q", got)
	}
	if got := bare.FallbackLanguages(); len(got) != 2 {
		t.Fatalf("expected both languages on fallback, got %v", got)
	}

	withMorph := newTestNormalizer(t, true, map[string]Analyzer{
		"russian": mapAnalyzer{"ивана": "иван"},
	})
	if got := withMorph.Normalize(" позвал ивана", "RUSSIAN").Text; got != "Позвал Ивана" {
		t.Fatalf("unexpected %q", got)
	}
	if got := withMorph.FallbackLanguages(); len(got) != 1 || got[0] != "ENGLISH" {
		t.Fatalf("expected only ENGLISH on fallback, got %v", got)
	}
}
