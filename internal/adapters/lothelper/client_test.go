package lothelper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchEvaluation(t *testing.T) {
	t.Run("maps full payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/books/9780306406157/evaluate", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"isbn": "9780306406157",
				"estimated_price": 20.0,
				"probability_score": 85,
				"probability_label": "High",
				"justification": ["Strong sell-through rate at 78% on eBay"],
				"metadata": {"title": "Past Tense", "series_name": "Jack Reacher", "series_index": 23},
				"market": {"sold_median_price": 18.5, "active_count": 12, "sold_count": 30, "sell_through_rate": 0.78},
				"bookscouter": {"best_price": 6.11, "best_vendor": "BooksRun", "total_vendors": 19, "amazon_sales_rank": 45123, "amazon_lowest_price": 14.99},
				"updated_at": "2026-08-01T12:00:00Z"
			}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		rec, err := client.FetchEvaluation(context.Background(), "9780306406157")
		require.NoError(t, err)

		assert.Equal(t, "9780306406157", rec.ISBN)
		assert.Equal(t, "Past Tense", rec.Title)
		assert.Equal(t, "Jack Reacher", rec.SeriesName)
		require.NotNil(t, rec.ConfidenceScore)
		assert.Equal(t, 85.0, *rec.ConfidenceScore)
		assert.Equal(t, "High", rec.ConfidenceLabel)
		require.NotNil(t, rec.EstimatedSalePrice)
		assert.Equal(t, 20.0, *rec.EstimatedSalePrice)
		require.NotNil(t, rec.Market)
		require.NotNil(t, rec.Market.SoldMedian)
		assert.Equal(t, 18.5, *rec.Market.SoldMedian)
		require.NotNil(t, rec.Buyback)
		assert.Equal(t, 6.11, rec.Buyback.BestPrice)
		assert.Equal(t, "BooksRun", rec.Buyback.BestVendor)
		require.NotNil(t, rec.Buyback.AmazonSalesRank)
		assert.Equal(t, 45123, *rec.Buyback.AmazonSalesRank)
		assert.Len(t, rec.Justification, 1)
		assert.False(t, rec.UpdatedAt.IsZero())
	})

	t.Run("sparse payload leaves sections nil", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"isbn": "9780306406157"}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		rec, err := client.FetchEvaluation(context.Background(), "9780306406157")
		require.NoError(t, err)

		assert.Nil(t, rec.EstimatedSalePrice)
		assert.Nil(t, rec.Market)
		assert.Nil(t, rec.Buyback)
		assert.Equal(t, 0.0, rec.Score())
	})

	t.Run("404 means not ready", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		_, err := client.FetchEvaluation(context.Background(), "9780306406157")
		assert.ErrorIs(t, err, ErrEvaluationNotReady)
	})

	t.Run("server error carries status and detail", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail": "market lookup failed"}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		_, err := client.FetchEvaluation(context.Background(), "9780306406157")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Contains(t, apiErr.Error(), "market lookup failed")
	})
}

func TestClient_SubmitScan(t *testing.T) {
	t.Run("posts isbn and attributes", func(t *testing.T) {
		var got scanRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/books/scan", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		err := client.SubmitScan(context.Background(), "9780306406157", ScanAttributes{Condition: "Good"})
		require.NoError(t, err)
		assert.Equal(t, "9780306406157", got.ISBN)
		assert.Equal(t, "Good", got.Condition)
	})

	t.Run("rejection surfaces as APIError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail": "invalid isbn"}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, nil)
		err := client.SubmitScan(context.Background(), "bogus", ScanAttributes{})

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	})
}

func TestToEvaluationRecord_MedianFallsBackToAverage(t *testing.T) {
	avg := 12.0
	rec := toEvaluationRecord(evaluationPayload{
		ISBN:   "9780306406157",
		Market: &marketPayload{SoldAvgPrice: &avg},
	})
	require.NotNil(t, rec.Market)
	require.NotNil(t, rec.Market.SoldMedian)
	assert.Equal(t, 12.0, *rec.Market.SoldMedian)
}
