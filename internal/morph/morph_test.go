package morph

import (
	"bufio"
	"io"
	"strings"
	"testing"
)

func TestLowercase(t *testing.T) {
	if got := (Lowercase{}).BaseForm("ИВАН"); got != "иван" {
		t.Fatalf("expected иван, got %q", got)
	}
}

// fakeAnalyzer отвечает по словарю, как это делал бы внешний процесс.
func startFake(t *testing.T, forms map[string]string) *Exec {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer outW.Close()
		sc := bufio.NewScanner(inR)
		for sc.Scan() {
			word := sc.Text()
			base, ok := forms[word]
			if !ok {
				base = strings.ToLower(word)
			}
			if _, err := io.WriteString(outW, base+"\n"); err != nil {
				return
			}
		}
	}()

	e := newExec(nil, inW, outR, nil)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestExecBaseForm(t *testing.T) {
	e := startFake(t, map[string]string{"ивана": "иван", "петрову": "петров"})

	cases := map[string]string{
		"ивана":   "иван",
		"петрову": "петров",
		"Домой":   "домой",
	}
	for in, want := range cases {
		if got := e.BaseForm(in); got != want {
			t.Errorf("BaseForm(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExecFallbackOnNewline(t *testing.T) {
	e := startFake(t, nil)
	if got := e.BaseForm("Two\nLines"); got != "two\nlines" {
		t.Fatalf("expected lowercase fallback, got %q", got)
	}
}

func TestExecFallbackWhenAnalyzerDied(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	inR.Close()
	outW.Close()

	e := newExec(nil, inW, outR, nil)
	if got := e.BaseForm("Ивана"); got != "ивана" {
		t.Fatalf("expected lowercase fallback, got %q", got)
	}
}
