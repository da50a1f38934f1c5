package delivery

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/ranto_vox/internal/etp"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, rateLimit int) (http.Handler, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "russian_names.txt")
	if err := os.WriteFile(path, []byte("иван\nмария\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	registry, err := etp.LoadRegistry(map[string][]string{"RUSSIAN": {path}})
	if err != nil {
		t.Fatal(err)
	}
	normalizer := etp.NewNormalizer(true, registry, nil, nil)
	zl := logger.NewZapLogger(zap.NewNop().Sugar())

	h := NewETPHandler(normalizer, registry, zl)
	return NewRouter(h, RouterOptions{RateLimitPerMinute: rateLimit, EnableMetrics: true}), path
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	h, _ := newTestRouter(t, 0)
	rec := doJSON(t, h, http.MethodGet, "/ping", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, 0)

	tests := []struct {
		name   string
		body   string
		code   int
		text   string
		status string
	}{
		{"applied", `{"text":"вчера мария и иван","language":"russian"}`, 200, "Вчера Мария и Иван", "applied"},
		{"unsupported", `{"text":"qapla","language":"KLINGON"}`, 200, "qapla", "unsupported"},
		{"missing language", `{"text":"иван"}`, 400, "", ""},
		{"bad json", `{"text":`, 400, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/etp/normalize", tt.body)
			if rec.Code != tt.code {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, tt.code, rec.Body.String())
			}
			if tt.code != 200 {
				return
			}
			var resp normalizeResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Text != tt.text || resp.Status != tt.status {
				t.Fatalf("got %+v, want text=%q status=%q", resp, tt.text, tt.status)
			}
		})
	}
}

func TestNormalizeTooLong(t *testing.T) {
	h, _ := newTestRouter(t, 0)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"text at the limit", `{"text":"` + strings.Repeat("а", maxTextLen) + `","language":"RUSSIAN"}`, http.StatusOK},
		{"text over the limit", `{"text":"` + strings.Repeat("а", maxTextLen+1) + `","language":"RUSSIAN"}`, http.StatusRequestEntityTooLarge},
		{"oversized body", `{"language":"RUSSIAN","pad":"` + strings.Repeat("x", 4<<20) + `"}`, http.StatusRequestEntityTooLarge},
		{"oversized invalid json", strings.Repeat("{", maxBodyBytes+1), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := doJSON(t, h, http.MethodPost, "/etp/normalize", tt.body); rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestLanguagesAndReload(t *testing.T) {
	h, path := newTestRouter(t, 0)

	rec := doJSON(t, h, http.MethodGet, "/etp/languages", "")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), "RUSSIAN") {
		t.Fatalf("unexpected languages response %d %s", rec.Code, rec.Body.String())
	}

	if err := os.WriteFile(path, []byte("иван\nмария\nпетр\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if rec := doJSON(t, h, http.MethodPost, "/etp/reload/russian", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("reload: unexpected code %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/etp/normalize", `{"text":"там петр","language":"RUSSIAN"}`)
	if !strings.Contains(rec.Body.String(), "Там Петр") {
		t.Fatalf("reloaded lexicon not applied: %s", rec.Body.String())
	}

	if rec := doJSON(t, h, http.MethodPost, "/etp/reload/klingon", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown language, got %d", rec.Code)
	}
}

func TestNormalizeRateLimited(t *testing.T) {
	h, _ := newTestRouter(t, 2)

	var last int
	for i := 0; i < 3; i++ {
		last = doJSON(t, h, http.MethodPost, "/etp/normalize", `{"text":"иван","language":"RUSSIAN"}`).Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %d", last)
	}
}

func TestMetricsExposed(t *testing.T) {
	h, _ := newTestRouter(t, 0)
	rec := doJSON(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != 200 {
		t.Fatalf("unexpected metrics code %d", rec.Code)
	}
}
