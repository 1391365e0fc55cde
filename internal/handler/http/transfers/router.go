package transfers_http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"bankengine/internal/app/transfers"
)

func NewRouter(allowedOrigins []string, requestTimeout time.Duration) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	return router
}

func RegisterRoutes(r chi.Router, s transfers.Service, rates SnapshotReader, metricsHandler http.Handler, l *zap.Logger) {
	handler := NewTransferHandler(s, rates, l.With(zap.String("component", "TransferHTTPHandler")))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Transfers service is healthy!"))
	})

	r.Route("/transfers", func(r chi.Router) {
		r.Post("/", handler.CreateTransferHandler)
		r.Get("/{id}", handler.GetTransferHandler)
		r.Get("/reference/{ref}", handler.GetTransferByReferenceHandler)
	})
	r.Post("/cards/{id}/purchases", handler.CreatePurchaseHandler)
	r.Get("/instruments/{id}", handler.GetInstrumentHandler)
	r.Get("/rates", handler.GetRatesHandler)

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
}
