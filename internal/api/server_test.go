package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncuskey/lothelper-engine/internal/adapters/lothelper"
	"github.com/ncuskey/lothelper-engine/internal/api"
	"github.com/ncuskey/lothelper-engine/internal/api/dto"
	"github.com/ncuskey/lothelper-engine/internal/application/scan"
	"github.com/ncuskey/lothelper-engine/internal/domain/book"
	"github.com/ncuskey/lothelper-engine/internal/domain/fees"
	"github.com/ncuskey/lothelper-engine/internal/infrastructure/storage"
)

// stubBackend serves canned evaluations keyed by ISBN.
type stubBackend struct {
	records map[string]book.EvaluationRecord
}

func (s *stubBackend) SubmitScan(context.Context, string, lothelper.ScanAttributes) error {
	return nil
}

func (s *stubBackend) FetchEvaluation(_ context.Context, isbn string) (book.EvaluationRecord, error) {
	rec, ok := s.records[isbn]
	if !ok {
		return book.EvaluationRecord{}, lothelper.ErrEvaluationNotReady
	}
	return rec, nil
}

func newTestServer(t *testing.T, backend scan.Backend, repo storage.Repository) *httptest.Server {
	t.Helper()
	cfg := scan.CoordinatorConfig{
		MaxAttempts: 3,
		BackoffStep: time.Second,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}
	svc := scan.NewService(backend, repo, fees.DefaultTable(), cfg, nil)
	srv := api.NewServer(api.DefaultConfig(), svc, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func f64(v float64) *float64 { return &v }

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, &stubBackend{}, storage.NewMockRepository())

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	health := decode[dto.HealthResponse](t, resp)
	assert.Equal(t, "ok", health.Status)
}

func TestServer_ScanLifecycle(t *testing.T) {
	score := 85.0
	estimate := 24.99
	backend := &stubBackend{records: map[string]book.EvaluationRecord{
		"9780306406157": {
			ISBN:               "9780306406157",
			Title:              "Numerical Recipes",
			ConfidenceScore:    &score,
			ConfidenceLabel:    "High confidence",
			EstimatedSalePrice: &estimate,
		},
	}}
	repo := storage.NewMockRepository()
	ts := newTestServer(t, backend, repo)

	resp := postJSON(t, ts.URL+"/api/scans", dto.StartScanRequest{
		ISBN:            "0306406152",
		Condition:       "Good",
		AcquisitionCost: f64(2),
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	started := decode[dto.ScanSessionResponse](t, resp)
	assert.Equal(t, "9780306406157", started.ISBN)
	assert.False(t, started.Duplicate.IsDuplicate)

	var session dto.ScanSessionResponse
	require.Eventually(t, func() bool {
		r, err := http.Get(ts.URL + "/api/scans/" + started.SessionID)
		require.NoError(t, err)
		session = decode[dto.ScanSessionResponse](t, r)
		return session.Status == "resolved"
	}, 2*time.Second, 10*time.Millisecond)

	require.NotNil(t, session.Outcome)
	assert.True(t, session.Outcome.Verdict.ShouldAcquire)
	require.NotEmpty(t, session.Outcome.Profits)
	assert.Equal(t, "ebay", session.Outcome.Profits[0].Channel)

	resp = postJSON(t, ts.URL+"/api/scans/"+started.SessionID+"/resolve", dto.ResolveScanRequest{
		Accepted: true,
		Location: "Goodwill 42nd",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	stored, err := repo.LookupAcceptedBook(context.Background(), "9780306406157")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Numerical Recipes", stored.Title)
}

func TestServer_ScanValidation(t *testing.T) {
	ts := newTestServer(t, &stubBackend{}, storage.NewMockRepository())

	t.Run("missing isbn", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/scans", dto.StartScanRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		apiErr := decode[dto.APIError](t, resp)
		assert.Equal(t, dto.ErrCodeBadRequest, apiErr.Code)
	})

	t.Run("garbage isbn", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/scans", dto.StartScanRequest{ISBN: "hello"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("unknown session", func(t *testing.T) {
		r, err := http.Get(ts.URL + "/api/scans/does-not-exist")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, r.StatusCode)
		r.Body.Close()
	})

	t.Run("resolving an unknown session", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/scans/nope/resolve", dto.ResolveScanRequest{Accepted: true})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestServer_Decisions(t *testing.T) {
	ts := newTestServer(t, &stubBackend{}, storage.NewMockRepository())

	estimate := 20.0
	resp := postJSON(t, ts.URL+"/api/decisions", dto.DecisionRequest{
		Evaluation: dto.EvaluationPayload{
			ISBN:               "9780306406157",
			ConfidenceLabel:    "High confidence",
			EstimatedSalePrice: &estimate,
		},
		AcquisitionCost: 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	outcome := decode[dto.OutcomeResponse](t, resp)
	require.Len(t, outcome.Profits, 1)
	// $20 on eBay: 20 - (20*0.1325 + 0.30) - 1 = 16.05
	assert.InDelta(t, 16.05, outcome.Profits[0].NetProfit, 0.001)
	assert.True(t, outcome.Verdict.ShouldAcquire)

	t.Run("missing evaluation", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/decisions", dto.DecisionRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestServer_DuplicateLookup(t *testing.T) {
	repo := storage.NewMockRepository()
	added := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.InsertAcceptedBook(context.Background(), &storage.AcceptedBook{
		ISBN: "9780306406157", AddedAt: added,
	}))
	ts := newTestServer(t, &stubBackend{}, repo)

	resp, err := http.Get(ts.URL + "/api/books/9780306406157/duplicate")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dup := decode[dto.DuplicateResponse](t, resp)
	assert.True(t, dup.IsDuplicate)
	require.NotNil(t, dup.PreviouslyAddedAt)
	assert.Equal(t, "2026-05-01T00:00:00Z", *dup.PreviouslyAddedAt)

	t.Run("unseen isbn", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/books/9780140328721/duplicate")
		require.NoError(t, err)
		dup := decode[dto.DuplicateResponse](t, resp)
		assert.False(t, dup.IsDuplicate)
	})
}

func TestServer_SeriesContext(t *testing.T) {
	repo := storage.NewMockRepository()
	require.NoError(t, repo.InsertAcceptedBook(context.Background(), &storage.AcceptedBook{
		ISBN: "9780515153651", SeriesName: "Jack Reacher",
	}))
	ts := newTestServer(t, &stubBackend{}, repo)

	resp, err := http.Get(ts.URL + "/api/series/context?name=jack+reacher&isbn=9780399593543")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ctx struct {
		IsPartOfSeries   bool   `json:"is_part_of_series"`
		SeriesName       string `json:"series_name"`
		BooksAlreadyHeld int    `json:"books_already_held"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ctx))
	resp.Body.Close()
	assert.True(t, ctx.IsPartOfSeries)
	assert.Equal(t, 1, ctx.BooksAlreadyHeld)

	t.Run("name is required", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/series/context")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}
