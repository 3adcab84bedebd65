package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptnbk2401/quy-do-official/internal/cache"
)

// fakeProvider counts calls and returns canned reports.
type fakeProvider struct {
	overviewCalls int
	err           error
}

func (f *fakeProvider) Overview(ctx context.Context, startDate, endDate string) (*OverviewMetrics, error) {
	f.overviewCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &OverviewMetrics{TotalVisits: 100, NewUsers: 40, Sessions: 120, BounceRate: 0}, nil
}

func (f *fakeProvider) Traffic(ctx context.Context, startDate, endDate string) ([]TrafficPoint, error) {
	return []TrafficPoint{{Date: startDate, Visits: 10, Users: 8}}, nil
}

func (f *fakeProvider) TrafficSources(ctx context.Context, startDate, endDate string) ([]TrafficSource, error) {
	return []TrafficSource{{Source: "Direct", Visits: 10, Percentage: 100}}, nil
}

func (f *fakeProvider) TopPages(ctx context.Context, startDate, endDate string, limit int) ([]PopularPage, error) {
	pages := make([]PopularPage, 0, limit)
	pages = append(pages, PopularPage{Path: "/gallery", Title: "Gallery", Visits: 50, Users: 30})
	return pages, nil
}

func overviewRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/api/v1/analytics/overview?startDate=2026-01-01&endDate=2026-01-31", nil)
}

func TestOverviewWithoutProvider(t *testing.T) {
	h := NewHandler(nil, cache.New())

	rec := httptest.NewRecorder()
	h.Overview(rec, overviewRequest())

	// Missing configuration is a 503 with guidance, not a crash.
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "GA_PROPERTY_ID")
}

func TestOverviewValidation(t *testing.T) {
	h := NewHandler(&fakeProvider{}, cache.New())

	tests := []struct {
		name string
		url  string
	}{
		{"missing dates", "/api/v1/analytics/overview"},
		{"bad format", "/api/v1/analytics/overview?startDate=01-01-2026&endDate=2026-01-31"},
		{"reversed range", "/api/v1/analytics/overview?startDate=2026-02-01&endDate=2026-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Overview(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestOverviewCachesSecondCall(t *testing.T) {
	provider := &fakeProvider{}
	h := NewHandler(provider, cache.New())

	rec := httptest.NewRecorder()
	h.Overview(rec, overviewRequest())
	require.Equal(t, http.StatusOK, rec.Code)

	var first reportEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.False(t, first.Cached)

	rec = httptest.NewRecorder()
	h.Overview(rec, overviewRequest())
	require.Equal(t, http.StatusOK, rec.Code)

	var second reportEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.True(t, second.Cached)
	assert.Equal(t, 1, provider.overviewCalls)
}

func TestOverviewProviderErrorMapping(t *testing.T) {
	provider := &fakeProvider{err: &Error{Code: CodeRateLimitExceeded, Message: "quota exhausted"}}
	h := NewHandler(provider, cache.New())

	rec := httptest.NewRecorder()
	h.Overview(rec, overviewRequest())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota exhausted")
}

func TestTopPagesLimit(t *testing.T) {
	h := NewHandler(&fakeProvider{}, cache.New())

	rec := httptest.NewRecorder()
	h.TopPages(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/top-pages?startDate=2026-01-01&endDate=2026-01-31&limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.TopPages(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/top-pages?startDate=2026-01-01&endDate=2026-01-31&limit=5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateDateRange(t *testing.T) {
	assert.NoError(t, ValidateDateRange("2026-01-01", "2026-01-31"))
	assert.NoError(t, ValidateDateRange("2026-01-01", "2026-01-01"))

	err := ValidateDateRange("2026-01-31", "2026-01-01")
	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CodeInvalidDateRange, aerr.Code)

	err = ValidateDateRange("jan 1", "2026-01-01")
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CodeInvalidDateRange, aerr.Code)
}
