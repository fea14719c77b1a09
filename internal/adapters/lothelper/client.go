// Package lothelper is the HTTP client for the evaluation backend.
//
// The backend computes evaluations asynchronously after a scan is
// submitted, so FetchEvaluation distinguishes "not ready yet"
// (ErrEvaluationNotReady) from hard failures; the scan coordinator owns
// the retry policy around it.
package lothelper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ncuskey/lothelper-engine/internal/domain/book"
)

const (
	defaultBaseURL = "https://lothelper.clevergirl.app"
	defaultTimeout = 10 * time.Second

	// Polite ceiling for batch analysis runs against the shared backend.
	requestsPerSec = 5
	requestBurst   = 5
)

// ErrEvaluationNotReady reports that the backend has accepted the scan
// but has not finished computing its evaluation.
var ErrEvaluationNotReady = errors.New("evaluation not ready")

// APIError is a non-404 backend failure.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// ScanAttributes are the user-entered attributes posted with a scan.
type ScanAttributes struct {
	Condition string
	Edition   string
}

// Client talks to the evaluation backend with rate limiting.
type Client struct {
	http    *http.Client
	base    string
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a client. An empty baseURL uses production.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		base:    baseURL,
		limiter: rate.NewLimiter(requestsPerSec, requestBurst),
		logger:  logger,
	}
}

// SubmitScan posts a scanned ISBN with its attributes. The backend kicks
// off evaluation asynchronously; from here on it is fire-and-forget.
func (c *Client) SubmitScan(ctx context.Context, isbn string, attrs ScanAttributes) error {
	body := scanRequest{ISBN: isbn, Condition: attrs.Condition, Edition: attrs.Edition}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal scan request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	url := c.base + "/api/books/scan"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit scan: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp)
	}

	c.logger.Debug("scan submitted", "isbn", isbn)
	return nil
}

// FetchEvaluation retrieves the evaluation record for an ISBN.
// Returns ErrEvaluationNotReady while the backend is still computing.
func (c *Client) FetchEvaluation(ctx context.Context, isbn string) (book.EvaluationRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return book.EvaluationRecord{}, err
	}

	url := fmt.Sprintf("%s/api/books/%s/evaluate", c.base, isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return book.EvaluationRecord{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return book.EvaluationRecord{}, fmt.Errorf("fetch evaluation: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return book.EvaluationRecord{}, ErrEvaluationNotReady
	case resp.StatusCode != http.StatusOK:
		return book.EvaluationRecord{}, c.apiError(resp)
	}

	var payload evaluationPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return book.EvaluationRecord{}, fmt.Errorf("decode evaluation: %w", err)
	}

	return toEvaluationRecord(payload), nil
}

func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		var detail errorPayload
		if json.Unmarshal(raw, &detail) == nil {
			apiErr.Detail = detail.Detail
		}
	}
	return apiErr
}
