package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/focusflow/internal/engine"
	"github.com/ayoisaiah/focusflow/internal/timeutil"
)

const shutdownTimeout = 5 * time.Second

type handler struct {
	src    Source
	now    func() time.Time
	logger *slog.Logger
}

// NewRouter returns the HTTP API over src.
func NewRouter(
	src Source,
	logger *slog.Logger,
	now func() time.Time,
) *chi.Mux {
	h := &handler{src: src, now: now, logger: logger}

	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(recovery(logger))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", h.summary)
		r.Get("/sessions", h.sessions)
	})

	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	period := timeutil.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = timeutil.PeriodAllTime
	}

	if !ValidPeriod(period) {
		writeError(w, http.StatusBadRequest, errInvalidPeriod.Fmt(period).Error())
		return
	}

	sessions, err := h.src.Sessions(r.Context(), time.Time{}, time.Time{})
	if err != nil {
		h.logger.Error("unable to load sessions", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "unable to load sessions")

		return
	}

	writeJSON(w, http.StatusOK, map[string]Summary{
		"stats": Summarize(sessions, Query{Period: period}, h.now()),
	})
}

func (h *handler) sessions(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	q := r.URL.Query()

	start, err := ParseDate(q.Get("start"), now.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	end, err := ParseDate(q.Get("end"), now.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// a bare end date includes the whole day
	if len(q.Get("end")) == len(time.DateOnly) {
		end = timeutil.RoundToEnd(end)
	}

	sessions, err := h.src.Sessions(r.Context(), start, end)
	if err != nil {
		h.logger.Error("unable to load sessions", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "unable to load sessions")

		return
	}

	if sessions == nil {
		sessions = []engine.SessionRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// ParseDate accepts YYYY-MM-DD in loc or an RFC 3339 timestamp. An empty
// value yields the zero time.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errInvalidDate.Fmt(s)
	}

	return t, nil
}

// Serve runs the API on port until ctx is cancelled.
func Serve(ctx context.Context, port uint, h http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	pterm.Info.Printfln("serving stats on http://localhost:%d", port)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		shutdownTimeout,
	)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
