package speech

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestMemWriteSeekerProducesValidWav(t *testing.T) {
	var m memWriteSeeker
	pcm := []byte{1, 0, 2, 0, 3, 0}
	if err := WritePCMToWav(&m, pcm, 16000, 1); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "mem.wav")
	if err := os.WriteFile(path, m.buf, 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := OpenWav(path)
	if err != nil {
		t.Fatalf("encoded wav is not readable: %v", err)
	}
	got, _ := src.ReadFrames()
	if string(got) != string(pcm) {
		t.Fatalf("pcm mismatch: %v", got)
	}
}

func TestDeepgramTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("language") != "ru" {
			http.Error(w, "bad language", http.StatusBadRequest)
			return
		}
		body, _ := io.ReadAll(r.Body)
		d := wav.NewDecoder(bytes.NewReader(body))
		if !d.IsValidFile() {
			http.Error(w, "not a wav", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"иван пошел домой"}]}]}}`))
	}))
	defer srv.Close()

	m := NewDeepgramModel("key", "RUSSIAN")
	m.baseURL = srv.URL

	got, err := Transcribe(context.Background(), NewPCMSource(16000, []byte{1, 0, 2, 0}), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != " иван пошел домой" {
		t.Fatalf("got %q", got)
	}
}

func TestDeepgramErrorIsRecognitionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	m := NewDeepgramModel("key", "ENGLISH")
	m.baseURL = srv.URL

	_, err := Transcribe(context.Background(), NewPCMSource(16000, []byte{1, 0}), m)
	if !errors.Is(err, ErrRecognition) {
		t.Fatalf("expected ErrRecognition, got %v", err)
	}
}

func TestBufferedRecognizerWithoutAudio(t *testing.T) {
	r := newBufferedRecognizer(context.Background(), 16000, 0, func(context.Context, io.Reader) (string, error) {
		t.Fatal("empty audio must not be sent")
		return "", nil
	})
	got, err := r.FinalResult()
	if err != nil || got != `{"text": ""}` {
		t.Fatalf("unexpected %q %v", got, err)
	}
}
