package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RequestRecorder counts served requests.
type RequestRecorder interface {
	HTTPRequest(method, route, code string)
}

type RouterOptions struct {
	AllowedOrigins []string
	Recorder       RequestRecorder
}

// NewRouter constructs a chi router with all API endpoints registered.
func NewRouter(h *HandlerProvider, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         60 * 15,
	}))

	if opts.Recorder != nil {
		r.Use(countRequests(opts.Recorder))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users/{userId}/bets", func(rr chi.Router) {
		rr.Post("/", h.CreateBetHandler)
		rr.Get("/", h.ListUserBetsHandler)
		rr.Get("/check", h.CheckExistingBetHandler)
		rr.Get("/current", h.CurrentBetHandler)
		rr.Get("/totals", h.UserTotalsHandler)
		rr.Get("/summary", h.UserSummaryHandler)
	})

	r.Route("/bets", func(rr chi.Router) {
		rr.Get("/", h.ListBetsHandler)
		rr.Get("/count", h.CountBetsHandler)
		rr.Get("/totals", h.TotalsHandler)
		rr.Patch("/{betId}", h.UpdateBetHandler)
	})

	r.Route("/settings", func(rr chi.Router) {
		rr.Get("/current", h.CurrentSettingHandler)
		rr.Post("/", h.PublishSettingHandler)
	})

	return r
}

// countRequests labels by route pattern, so path ids do not explode cardinality.
func countRequests(rec RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			rec.HTTPRequest(r.Method, route, strconv.Itoa(status))
		})
	}
}
