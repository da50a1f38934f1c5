package delivery

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/ranto_vox/internal/etp"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

// maxTextLen: лимит на текст в запросе нормализации (символы Telegram-сообщения).
const maxTextLen = 4096

// maxBodyBytes: тело запроса целиком. 4096 символов в \uXXXX-экранировании плюс запас на поля.
const maxBodyBytes = 64 << 10

type Normalizer interface {
	Normalize(raw, lang string) etp.Result
}

type Lexicons interface {
	Languages() []string
	Reload(lang string) error
}

type ETPHandler struct {
	normalizer Normalizer
	lexicons   Lexicons
	log        *logger.ZapLogger
}

func NewETPHandler(normalizer Normalizer, lexicons Lexicons, log *logger.ZapLogger) *ETPHandler {
	return &ETPHandler{normalizer: normalizer, lexicons: lexicons, log: log}
}

type normalizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type normalizeResponse struct {
	Text   string `json:"text"`
	Status string `json:"status"`
}

// POST /etp/normalize
// body: { "text": "иван пошел домой", "language": "RUSSIAN" }
func (h *ETPHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body is too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var req normalizeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Language) == "" {
		http.Error(w, "language is required", http.StatusBadRequest)
		return
	}
	if len([]rune(req.Text)) > maxTextLen {
		http.Error(w, "text is too long", http.StatusRequestEntityTooLarge)
		return
	}

	// текст приходит без служебного разделителя, добавляем его как это делает распознавание
	res := h.normalizer.Normalize(" "+req.Text, req.Language)
	if res.Warning() {
		h.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "etp returned raw text: " + string(res.Status) + " (" + req.Language + ")",
			Service: "etp",
		})
	}

	writeJSON(w, http.StatusOK, normalizeResponse{Text: res.Text, Status: string(res.Status)})
}

// GET /etp/languages
func (h *ETPHandler) Languages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"languages": h.lexicons.Languages()})
}

// POST /etp/reload/{lang}: перечитать лексикон без рестарта
func (h *ETPHandler) Reload(w http.ResponseWriter, r *http.Request) {
	lang := strings.ToUpper(chi.URLParam(r, "lang"))
	if err := h.lexicons.Reload(lang); err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "lexicon reload failed", Error: err, Service: "etp"})
		http.Error(w, "reload failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
