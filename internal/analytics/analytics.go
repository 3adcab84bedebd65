// Package analytics exposes the admin dashboard's reporting endpoints.
//
// The reporting backend itself (Google Analytics) lives behind the Provider
// interface: this package owns the request validation, response shapes,
// error taxonomy, and short-horizon caching, not the upstream client.
package analytics

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// OverviewMetrics summarizes the reporting period.
//
// BounceRate is always 0: the metric was removed from the upstream report
// query and the field is kept only for response-shape compatibility.
type OverviewMetrics struct {
	TotalVisits int     `json:"totalVisits"`
	NewUsers    int     `json:"newUsers"`
	Sessions    int     `json:"sessions"`
	BounceRate  float64 `json:"bounceRate"`
}

// TrafficPoint is one day of traffic.
type TrafficPoint struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Visits int    `json:"visits"`
	Users  int    `json:"users"`
}

// TrafficSource is one acquisition channel's share of sessions.
type TrafficSource struct {
	Source     string  `json:"source"`
	Visits     int     `json:"visits"`
	Percentage float64 `json:"percentage"`
}

// PopularPage is one page ranked by sessions.
type PopularPage struct {
	Path   string `json:"path"`
	Title  string `json:"title"`
	Visits int    `json:"visits"`
	Users  int    `json:"users"`
}

// Provider fetches reports from the upstream analytics service. All date
// arguments are YYYY-MM-DD, already validated by the handler.
type Provider interface {
	Overview(ctx context.Context, startDate, endDate string) (*OverviewMetrics, error)
	Traffic(ctx context.Context, startDate, endDate string) ([]TrafficPoint, error)
	TrafficSources(ctx context.Context, startDate, endDate string) ([]TrafficSource, error)
	TopPages(ctx context.Context, startDate, endDate string, limit int) ([]PopularPage, error)
}

// Code identifies a class of analytics failure.
type Code string

// Analytics error codes, mapped to HTTP statuses at the handler boundary.
const (
	CodeMissingConfig        Code = "MISSING_CONFIG"
	CodeInvalidDateRange     Code = "INVALID_DATE_RANGE"
	CodeAuthenticationFailed Code = "AUTHENTICATION_FAILED"
	CodeInvalidCredentials   Code = "INVALID_CREDENTIALS"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"
	CodeNetworkError         Code = "NETWORK_ERROR"
	CodeAPIError             Code = "GA_API_ERROR"
)

// Error is a typed analytics failure.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("analytics: %s: %s", e.Code, e.Message)
}

// HTTPStatus maps the error code to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeAuthenticationFailed, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case CodeInvalidDateRange:
		return http.StatusBadRequest
	case CodeMissingConfig:
		return http.StatusServiceUnavailable
	case CodeNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ValidateDateRange checks both dates are YYYY-MM-DD and ordered.
func ValidateDateRange(startDate, endDate string) error {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return &Error{Code: CodeInvalidDateRange, Message: "invalid date format, use YYYY-MM-DD"}
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return &Error{Code: CodeInvalidDateRange, Message: "invalid date format, use YYYY-MM-DD"}
	}
	if start.After(end) {
		return &Error{Code: CodeInvalidDateRange, Message: "startDate must not be after endDate"}
	}
	return nil
}
