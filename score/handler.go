package score

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phanxgames/globe/internal/logger"
	"github.com/phanxgames/globe/internal/metrics"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 16

// SubmitRequest is the body of POST /api/scores.
type SubmitRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

// Handler serves the score API over a Store. The locator is optional;
// without it /api/locate answers 503.
type Handler struct {
	store   Store
	locator Locator
	log     *slog.Logger
}

// NewHandler creates a handler.
func NewHandler(store Store, locator Locator, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: store, locator: locator, log: log}
}

// RegisterRoutes mounts the API, health and metrics routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Use(instrument)
		r.Get("/scores/{user}", h.getScore)
		r.Post("/scores", h.postScore)
		r.Get("/leaderboard", h.leaderboard)
		r.Get("/location/{key}", h.getLocation)
		r.Put("/location/{key}", h.putLocation)
		r.Get("/locate", h.locate)
	})
}

// NewRouter builds the service router with the standard middleware stack.
func NewRouter(h *Handler, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.AccessMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	h.RegisterRoutes(r)
	return r
}

func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Warn("store ping failed", "err", err)
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) getScore(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.Score(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		h.storeError(w, "score", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) postScore(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := CheckID("user id", req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Score < 0 {
		writeError(w, http.StatusBadRequest, "score must not be negative")
		return
	}
	res, err := h.store.SaveScore(r.Context(), req.UserID, req.Username, req.Score)
	if err != nil {
		h.storeError(w, "save_score", err)
		return
	}
	metrics.ScoresSubmittedTotal.Inc()
	if res.NewBest {
		metrics.NewBestTotal.Inc()
	}
	h.log.Info("score saved", "user", req.UserID, "score", req.Score, "best", res.Entry.Score, "new_best", res.NewBest)
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	es, err := h.store.Leaderboard(r.Context(), limit)
	if err != nil {
		h.storeError(w, "leaderboard", err)
		return
	}
	writeJSON(w, http.StatusOK, es)
}

func (h *Handler) getLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := h.store.Location(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.storeError(w, "location", err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (h *Handler) putLocation(w http.ResponseWriter, r *http.Request) {
	var loc Location
	if !decodeBody(w, r, &loc) {
		return
	}
	if err := loc.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	key := chi.URLParam(r, "key")
	if err := CheckID("location key", key); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.SaveLocation(r.Context(), key, loc); err != nil {
		h.storeError(w, "save_location", err)
		return
	}
	metrics.LocationsSavedTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) locate(w http.ResponseWriter, r *http.Request) {
	if h.locator == nil {
		writeError(w, http.StatusServiceUnavailable, "geoip disabled")
		return
	}
	raw := r.URL.Query().Get("ip")
	if raw == "" {
		raw = r.RemoteAddr
	}
	ip := ParseIP(raw)
	if ip == nil {
		metrics.LocateTotal.WithLabelValues("bad_ip").Inc()
		writeError(w, http.StatusBadRequest, "invalid ip")
		return
	}
	loc, err := h.locator.Locate(ip)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.LocateTotal.WithLabelValues("miss").Inc()
		writeError(w, http.StatusNotFound, "ip not found")
	case err != nil:
		metrics.LocateTotal.WithLabelValues("error").Inc()
		h.log.Error("geoip lookup failed", "ip", ip.String(), "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
	default:
		metrics.LocateTotal.WithLabelValues("hit").Inc()
		writeJSON(w, http.StatusOK, loc)
	}
}

func (h *Handler) storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	metrics.StoreErrorsTotal.WithLabelValues(op).Inc()
	h.log.Error("store failed", "op", op, "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
