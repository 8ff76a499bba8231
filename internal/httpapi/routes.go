package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/giftbox-letters/internal/catalog"
	"github.com/DoyleJ11/giftbox-letters/internal/hub"
	"github.com/DoyleJ11/giftbox-letters/internal/settings"
	"github.com/DoyleJ11/giftbox-letters/internal/worksheet"
	"github.com/DoyleJ11/giftbox-letters/internal/ws"
)

type Deps struct {
	Hub       *hub.Hub
	Settings  *settings.Store
	Catalog   *catalog.Catalog
	Worksheet worksheet.Renderer
	Log       *zap.Logger
}

func SetupRoutes(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(log))

	// Public routes
	r.Post("/sessions", CreateSession(d.Hub, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(d.Hub, d.Log))

	// Settings screen
	r.Get("/settings", GetSettings(d.Settings))
	r.Put("/settings", PutSettings(d.Settings, log))
	r.Get("/letters", Letters(d.Catalog, d.Settings))
	r.Get("/worksheet.pdf", Worksheet(d.Worksheet, d.Settings, log))
	return r
}

func accessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
