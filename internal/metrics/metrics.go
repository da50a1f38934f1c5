// Package metrics: Prometheus-метрики бота.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rantovox"

type Metrics struct {
	STTRequests   *prometheus.CounterVec
	STTLatency    prometheus.Histogram
	TTSRequests   *prometheus.CounterVec
	TTSLatency    prometheus.Histogram
	ETPResults    *prometheus.CounterVec
	LexiconReload *prometheus.CounterVec
	Updates       *prometheus.CounterVec
}

// DefaultMetrics регистрируется в глобальном реестре один раз.
var DefaultMetrics = NewMetrics()

func NewMetrics() *Metrics {
	return &Metrics{
		STTRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_requests_total",
			Help:      "Speech-to-text requests by outcome",
		}, []string{"lang", "outcome"}),
		STTLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stt_recognition_seconds",
			Help:      "Time spent building a transcript",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		TTSRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tts_requests_total",
			Help:      "Text-to-speech requests by outcome",
		}, []string{"voice", "outcome"}),
		TTSLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tts_synthesis_seconds",
			Help:      "Time spent synthesizing and transcoding speech",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		ETPResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "etp_results_total",
			Help:      "Extra text processing results by language and status",
		}, []string{"lang", "status"}),
		LexiconReload: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "etp_lexicon_reloads_total",
			Help:      "Lexicon reloads triggered by file changes",
		}, []string{"lang", "result"}),
		Updates: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_updates_total",
			Help:      "Telegram updates by kind",
		}, []string{"kind"}),
	}
}
