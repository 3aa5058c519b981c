package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ayoisaiah/focusflow/internal/engine"
)

const defaultRequestsPerMinute = 30

type remoteSession struct {
	CompletedAt     time.Time   `json:"completedAt"`
	ID              string      `json:"id"`
	Phase           engine.Mode `json:"phase"`
	DurationMinutes int         `json:"durationMinutes"`
}

// HTTPRecorder posts session records to a remote aggregation endpoint.
type HTTPRecorder struct {
	client   *http.Client
	limiter  *rate.Limiter
	endpoint string
	token    string
}

// NewHTTPRecorder returns a recorder that sends at most requestsPerMinute
// requests. A non-positive rate selects the default.
func NewHTTPRecorder(
	endpoint, token string,
	requestsPerMinute int,
	client *http.Client,
) *HTTPRecorder {
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultRequestsPerMinute
	}

	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	rps := float64(requestsPerMinute) / 60.0
	burst := max(1, requestsPerMinute/10)

	return &HTTPRecorder{
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		endpoint: endpoint,
		token:    token,
	}
}

// RecordSession sends the record. The record ID doubles as the idempotency
// key so the server can discard retries.
func (h *HTTPRecorder) RecordSession(
	ctx context.Context,
	rec engine.SessionRecord,
) error {
	err := h.limiter.Wait(ctx)
	if err != nil {
		return errRemoteRequest.Wrap(err)
	}

	id := RecordID(rec)

	body, err := json.Marshal(remoteSession{
		ID:              id,
		Phase:           rec.Phase,
		DurationMinutes: rec.DurationMinutes,
		CompletedAt:     rec.CompletedAt,
	})
	if err != nil {
		return errRemoteRequest.Wrap(err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		h.endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return errRemoteRequest.Wrap(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", id)

	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return errRemoteRequest.Wrap(err)
	}
	defer resp.Body.Close()

	// a conflict means the session was already recorded
	if resp.StatusCode == http.StatusConflict {
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errRemoteStatus.Fmt(resp.StatusCode)
	}

	return nil
}
