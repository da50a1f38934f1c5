package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	RateLimitPerMinute int
	EnableMetrics      bool
}

func NewRouter(hETP *ETPHandler, opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	RegisterRoutes(r, hETP, opts)
	return r
}

func RegisterRoutes(r chi.Router, hETP *ETPHandler, opts RouterOptions) {
	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	if opts.EnableMetrics {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	// --- etp ---
	r.Route("/etp", func(er chi.Router) {
		er.Use(httputil.RecoverMiddleware)
		if opts.RateLimitPerMinute > 0 {
			er.Use(httprate.LimitByIP(opts.RateLimitPerMinute, time.Minute))
		}

		er.Get("/languages", hETP.Languages)
		er.Post("/normalize", hETP.Normalize)
		er.Post("/reload/{lang}", hETP.Reload)
	})
}
