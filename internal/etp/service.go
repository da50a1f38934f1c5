package etp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Vovarama1992/ranto_vox/internal/metrics"
	"github.com/Vovarama1992/ranto_vox/internal/morph"
	"go.uber.org/zap"
)

// Normalizer (Extra Text Processing) ставит заглавные буквы в именах собственных
// и в первом слове распознанного текста.
type Normalizer struct {
	enabled   bool
	registry  *Registry
	analyzers map[string]Analyzer
	fallback  Analyzer
	log       *zap.Logger
}

func NewNormalizer(enabled bool, registry *Registry, analyzers map[string]Analyzer, log *zap.Logger) *Normalizer {
	if registry == nil {
		registry = NewRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}
	upper := make(map[string]Analyzer, len(analyzers))
	for lang, a := range analyzers {
		upper[strings.ToUpper(lang)] = a
	}
	return &Normalizer{
		enabled:   enabled,
		registry:  registry,
		analyzers: upper,
		fallback:  morph.Lowercase{},
		log:       log,
	}
}

func (n *Normalizer) Enabled() bool {
	return n.enabled
}

// Normalize принимает сырой транскрипт, первый символ которого служебный разделитель,
// и отбрасывает ровно его. Повторный вызов на собственном результате съест настоящую букву.
func (n *Normalizer) Normalize(raw, lang string) Result {
	text := stripSentinel(raw)
	lang = strings.ToUpper(strings.TrimSpace(lang))

	if !n.enabled {
		n.log.Warn("[etp] disabled in configuration, raw message returned")
		return n.done(lang, Result{Text: text, Status: StatusDisabled})
	}

	l, ok := n.registry.Lookup(lang)
	if !ok {
		n.log.Warn("[etp] unknown language requested, raw message returned", zap.String("lang", lang))
		return n.done(lang, Result{Text: text, Status: StatusUnsupported})
	}

	analyzer := n.analyzerFor(lang)
	words := strings.Split(text, " ")

	for i, word := range words {
		if word == "" {
			continue
		}
		if l.Lexicon.Contains(analyzer.BaseForm(word)) {
			words[i] = capitalizeFirst(word)
		}
	}

	// первое слово считаем началом предложения
	if first, _ := utf8.DecodeRuneInString(words[0]); words[0] != "" && l.Alphabet.Contains(first) {
		words[0] = capitalizeFirst(words[0])
	}

	return n.done(lang, Result{Text: strings.Join(words, " "), Status: StatusApplied})
}

func (n *Normalizer) analyzerFor(lang string) Analyzer {
	if a, ok := n.analyzers[lang]; ok && a != nil {
		return a
	}
	return n.fallback
}

// FallbackLanguages: языки с лексиконом, но без морфологического анализатора.
// Для них нормальная форма это слово в нижнем регистре, и падежные формы
// («ивана», «петрову») в лексиконе не находятся.
func (n *Normalizer) FallbackLanguages() []string {
	var out []string
	for _, lang := range n.registry.Languages() {
		if a, ok := n.analyzers[lang]; !ok || a == nil {
			out = append(out, lang)
		}
	}
	return out
}

func (n *Normalizer) done(lang string, res Result) Result {
	metrics.DefaultMetrics.ETPResults.WithLabelValues(lang, string(res.Status)).Inc()
	return res
}

func stripSentinel(raw string) string {
	if raw == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(raw)
	return raw[size:]
}

// capitalizeFirst поднимает только первую букву, остальное не трогает.
func capitalizeFirst(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
