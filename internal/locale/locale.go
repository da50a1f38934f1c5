package locale

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

const (
	Russian = "RUSSIAN"
	English = "ENGLISH"

	// язык интерфейса по умолчанию
	Default = Russian
)

// ключи строк интерфейса
const (
	KeyStart              = "start"
	KeyStartAgain         = "start_again"
	KeyHelp               = "help"
	KeySTTLangChoice      = "stt_lang_choice"
	KeySTTLangChanged     = "stt_lang_changed"
	KeySTTLangLeft        = "stt_lang_left"
	KeyVoiceGenderChoice  = "voice_gender_choice"
	KeyVoiceGenderChanged = "voice_gender_changed"
	KeyVoiceGenderLeft    = "voice_gender_left"
	KeyBotLocaleChoice    = "bot_locale_choice"
	KeyBotLocaleChanged   = "bot_locale_changed"
	KeyBotLocaleLeft      = "bot_locale_left"
	KeyRequestFailed      = "request_failed"
	KeyNoSpeechFound      = "no_speech_found"
	KeyFemaleButton       = "female_button"
	KeyMaleButton         = "male_button"
	KeyRussianButton      = "russian_button"
	KeyEnglishButton      = "english_button"
	KeyCancelButton       = "cancel_button"
)

//go:embed strings.json
var rawStrings []byte

// Table хранит строки интерфейса, язык → ключ → текст.
type Table map[string]map[string]string

var defaultTable = mustParse(rawStrings)

func mustParse(data []byte) Table {
	t, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return t
}

func Parse(data []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse localization: %w", err)
	}
	return t, nil
}

// Get: строка для языка. Неизвестный язык → язык по умолчанию, неизвестный ключ → сам ключ.
func Get(lang, key string) string {
	return defaultTable.Get(lang, key)
}

func Format(lang, key string, args ...any) string {
	return defaultTable.Format(lang, key, args...)
}

func CheckEquivalence() error {
	return defaultTable.CheckEquivalence()
}

func Languages() []string {
	return defaultTable.Languages()
}

// Has: есть ли интерфейс на этом языке.
func Has(lang string) bool {
	_, ok := defaultTable[strings.ToUpper(lang)]
	return ok
}

func (t Table) Get(lang, key string) string {
	strs, ok := t[strings.ToUpper(lang)]
	if !ok {
		strs = t[Default]
	}
	if s, ok := strs[key]; ok {
		return s
	}
	return key
}

// Format подставляет аргументы по очереди вместо плейсхолдеров {}.
func (t Table) Format(lang, key string, args ...any) string {
	s := t.Get(lang, key)
	for _, a := range args {
		i := strings.Index(s, "{}")
		if i < 0 {
			break
		}
		s = s[:i] + fmt.Sprint(a) + s[i+2:]
	}
	return s
}

// CheckEquivalence: у всех языков одинаковый набор ключей.
func (t Table) CheckEquivalence() error {
	langs := t.Languages()
	if len(langs) == 0 {
		return fmt.Errorf("localization is empty")
	}

	base := langs[0]
	for _, lang := range langs[1:] {
		if missing := diffKeys(t[base], t[lang]); len(missing) > 0 {
			return fmt.Errorf("locale %s misses keys of %s: %s", lang, base, strings.Join(missing, ", "))
		}
		if extra := diffKeys(t[lang], t[base]); len(extra) > 0 {
			return fmt.Errorf("locale %s has keys missing in %s: %s", lang, base, strings.Join(extra, ", "))
		}
	}
	return nil
}

func (t Table) Languages() []string {
	out := make([]string, 0, len(t))
	for lang := range t {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// diffKeys: ключи a, которых нет в b.
func diffKeys(a, b map[string]string) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
