package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"fsanano/marketplace/internal/service"
)

type Handler struct {
	router *chi.Mux
	svc    *service.MarketService
	log    logrus.FieldLogger
}

func NewHandler(svc *service.MarketService, log logrus.FieldLogger) *Handler {
	router := chi.NewRouter()

	compressor := middleware.NewCompressor(5, "application/json", "text/html")
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(compressor.Handler)

	h := &Handler{
		router: router,
		svc:    svc,
		log:    log,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)
	})

	h.router.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{uid:[0-9]+}", h.GetUser)
		r.Put("/{uid:[0-9]+}", h.UpdateUser)
		r.Delete("/{uid:[0-9]+}", h.DeleteUser)
	})

	h.router.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.CreateOrder)
		r.Get("/{uid:[0-9]+}", h.GetOrder)
		r.Put("/{uid:[0-9]+}", h.UpdateOrder)
		r.Delete("/{uid:[0-9]+}", h.DeleteOrder)
	})

	h.router.Route("/offers", func(r chi.Router) {
		r.Get("/", h.ListOffers)
		r.Post("/", h.CreateOffer)
		r.Get("/{uid:[0-9]+}", h.GetOffer)
		r.Put("/{uid:[0-9]+}", h.UpdateOffer)
		r.Delete("/{uid:[0-9]+}", h.DeleteOffer)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"url":        r.URL.String(),
				"remoteAddr": r.RemoteAddr,
				"userAgent":  r.UserAgent(),
				"status":     ww.Status(),
				"duration":   time.Since(start).String(),
			}).Info("handled request")
		})
	}
}
