package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/stoik/email-guard/internal/application"
	"github.com/stoik/email-guard/internal/domain"
	"github.com/stoik/email-guard/internal/metrics"
	"github.com/stoik/email-guard/internal/ports"
)

// Options configures the HTTP surface
type Options struct {
	AllowedOrigins []string
	CookieName     string
	MaxBodyBytes   int64 // Request body cap for POST /scan/email
}

// Router serves the scan API
type Router struct {
	scans   *application.ScanService
	logger  *zap.Logger
	maxBody int64
}

// NewRouter builds the HTTP handler with its middleware chain
func NewRouter(
	scans *application.ScanService,
	identities ports.IdentityResolver,
	history ports.HistoryStore,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts Options,
) http.Handler {
	r := &Router{scans: scans, logger: logger, maxBody: opts.MaxBodyBytes}
	mux := chi.NewRouter()

	mux.Use(RecoverMiddleware(logger))
	mux.Use(LoggingMiddleware(logger))
	mux.Use(MetricsMiddleware(m))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !allowsAnyOrigin(opts.AllowedOrigins),
		MaxAge:           300,
	}))

	mux.Get("/health", HealthHandler(map[string]HealthChecker{
		"history": CheckFunc(history.Ping),
	}))
	mux.Get("/ready", ReadinessHandler)
	mux.Handle("/metrics", m.Handler())
	mux.Get("/models", r.wrap(r.handleModels))

	mux.Group(func(rt chi.Router) {
		rt.Use(SessionAuth(identities, opts.CookieName))
		rt.Post("/scan/email", r.wrap(r.handleScan))
		rt.Get("/history", r.wrap(r.handleHistory))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type errorBody struct {
	Detail string `json:"detail"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
			case errors.Is(err, domain.ErrUnauthenticated):
				writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "not authenticated"})
			default:
				r.logger.Error("Request failed",
					zap.String("method", req.Method),
					zap.String("path", req.URL.Path),
					zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "internal server error"})
			}
		}
	}
}

// POST /scan/email
// Body: {"email_text": "<raw email>"}
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) error {
	userID := UserIDFromContext(req.Context())

	if r.maxBody > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, r.maxBody)
	}

	var body struct {
		EmailText *string `json:"email_text"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrInvalidInput, maxErr.Limit)
		}
		return fmt.Errorf("%w: request body must be a JSON object with a string email_text", domain.ErrInvalidInput)
	}
	if body.EmailText == nil {
		return fmt.Errorf("%w: email_text is required", domain.ErrInvalidInput)
	}

	resp, err := r.scans.Scan(req.Context(), userID, *body.EmailText)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, resp)
	return nil
}

// GET /history?limit=10
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	userID := UserIDFromContext(req.Context())

	limit := 0
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: limit must be an integer", domain.ErrInvalidInput)
		}
		limit = n
	}

	list, err := r.scans.History(req.Context(), userID, limit)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /models
func (r *Router) handleModels(w http.ResponseWriter, req *http.Request) error {
	writeJSON(w, http.StatusOK, r.scans.Models())
	return nil
}

// allowsAnyOrigin reports a wildcard origin, which browsers refuse for credentialed requests
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
