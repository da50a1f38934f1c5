package etp

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Language: всё, что нужно ETP для одного языка.
type Language struct {
	Name     string
	Alphabet Alphabet
	Lexicon  *Lexicon
	Sources  []string
}

// Registry: языки ETP, загружаемые один раз при старте.
// Читается конкурентно, перезагружается вотчером.
type Registry struct {
	mu    sync.RWMutex
	langs map[string]*Language
}

func NewRegistry() *Registry {
	return &Registry{langs: make(map[string]*Language)}
}

// LoadRegistry загружает лексиконы всех языков. Нечитаемый файл считается ошибкой конфигурации.
func LoadRegistry(sources map[string][]string) (*Registry, error) {
	r := NewRegistry()
	for lang, paths := range sources {
		if err := r.Register(lang, paths...); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(lang string, paths ...string) error {
	lang = strings.ToUpper(lang)
	alphabet, ok := BuiltinAlphabet(lang)
	if !ok {
		return fmt.Errorf("etp: no alphabet for language %s", lang)
	}
	lex, err := LoadLexicon(lang, paths...)
	if err != nil {
		return err
	}
	r.Put(&Language{
		Name:     lang,
		Alphabet: alphabet,
		Lexicon:  lex,
		Sources:  append([]string(nil), paths...),
	})
	return nil
}

func (r *Registry) Put(l *Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.langs[l.Name] = l
}

func (r *Registry) Lookup(lang string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.langs[strings.ToUpper(lang)]
	return l, ok
}

// Reload перечитывает лексикон языка; при ошибке остаётся прежний.
func (r *Registry) Reload(lang string) error {
	l, ok := r.Lookup(lang)
	if !ok {
		return fmt.Errorf("etp: language %s is not registered", lang)
	}
	lex, err := LoadLexicon(l.Name, l.Sources...)
	if err != nil {
		return err
	}
	r.Put(&Language{Name: l.Name, Alphabet: l.Alphabet, Lexicon: lex, Sources: l.Sources})
	return nil
}

func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.langs))
	for name := range r.langs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
