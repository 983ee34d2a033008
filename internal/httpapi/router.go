package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string
	// RatePerSecond 0 disables rate limiting.
	RatePerSecond float64
	RateBurst     int
}

// NewRouter wires the handler behind the middleware stack.
func NewRouter(h *Handler, opts RouterOptions, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(Recovery)
	r.Use(CORS(opts.AllowedOrigins))
	if opts.RatePerSecond > 0 {
		r.Use(RateLimit(rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.RateBurst)))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Ruta no encontrada.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Método no permitido.")
	})

	r.Get("/", h.Root)
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.Status)
		r.Post("/upload-database", h.Upload)
		r.Get("/clientes", h.ListCustomers)
		r.Get("/clientes/{id}", h.GetCustomer)
		r.Get("/clientes/{id}/historial", h.History)
	})
	return r
}
