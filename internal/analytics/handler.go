package analytics

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ptnbk2401/quy-do-official/internal/cache"
	"github.com/ptnbk2401/quy-do-official/internal/response"
)

// reportTTL is how long report responses stay cached. Short enough that the
// dashboard is near-live, long enough to absorb refresh bursts.
const reportTTL = 5 * time.Minute

const defaultTopPagesLimit = 10

// Handler holds HTTP handlers for the analytics endpoints. provider is nil
// when reporting credentials are not configured; every report endpoint then
// answers 503 with setup guidance instead of failing the panel.
type Handler struct {
	provider Provider
	cache    *cache.Cache
}

// NewHandler creates a new analytics Handler.
func NewHandler(provider Provider, c *cache.Cache) *Handler {
	return &Handler{provider: provider, cache: c}
}

// reportEnvelope matches the dashboard's expected response shape: the
// standard envelope plus a cached flag.
type reportEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Cached  bool        `json:"cached"`
}

// Overview godoc
//
//	@Summary		Overview metrics
//	@Tags			analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Param			startDate	query		string	true	"YYYY-MM-DD"
//	@Param			endDate		query		string	true	"YYYY-MM-DD"
//	@Success		200			{object}	reportEnvelope
//	@Failure		400			{object}	response.Envelope
//	@Failure		503			{object}	response.Envelope
//	@Router			/analytics/overview [get]
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "overview", nil, func(start, end string) (interface{}, error) {
		return h.provider.Overview(r.Context(), start, end)
	})
}

// Traffic godoc
//
//	@Summary		Daily traffic
//	@Tags			analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Param			startDate	query		string	true	"YYYY-MM-DD"
//	@Param			endDate		query		string	true	"YYYY-MM-DD"
//	@Success		200			{object}	reportEnvelope
//	@Router			/analytics/traffic [get]
func (h *Handler) Traffic(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "traffic", nil, func(start, end string) (interface{}, error) {
		return h.provider.Traffic(r.Context(), start, end)
	})
}

// Sources godoc
//
//	@Summary		Traffic sources breakdown
//	@Tags			analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Param			startDate	query		string	true	"YYYY-MM-DD"
//	@Param			endDate		query		string	true	"YYYY-MM-DD"
//	@Success		200			{object}	reportEnvelope
//	@Router			/analytics/sources [get]
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	h.report(w, r, "sources", nil, func(start, end string) (interface{}, error) {
		return h.provider.TrafficSources(r.Context(), start, end)
	})
}

// TopPages godoc
//
//	@Summary		Most visited pages
//	@Tags			analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Param			startDate	query		string	true	"YYYY-MM-DD"
//	@Param			endDate		query		string	true	"YYYY-MM-DD"
//	@Param			limit		query		int		false	"Max pages, default 10"
//	@Success		200			{object}	reportEnvelope
//	@Router			/analytics/top-pages [get]
func (h *Handler) TopPages(w http.ResponseWriter, r *http.Request) {
	limit := defaultTopPagesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, &Error{Code: CodeInvalidDateRange, Message: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	extra := map[string]string{"limit": strconv.Itoa(limit)}
	h.report(w, r, "top-pages", extra, func(start, end string) (interface{}, error) {
		return h.provider.TopPages(r.Context(), start, end, limit)
	})
}

// CacheStats godoc
//
//	@Summary		Report cache statistics
//	@Tags			analytics
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=cache.Stats}
//	@Router			/analytics/cache-stats [get]
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.cache.Stats())
}

// report runs the shared fetch pipeline: validate dates, consult the cache,
// fall through to the provider, cache the result.
func (h *Handler) report(w http.ResponseWriter, r *http.Request, endpoint string, extraParams map[string]string, fetch func(start, end string) (interface{}, error)) {
	if h.provider == nil {
		h.writeError(w, &Error{
			Code:    CodeMissingConfig,
			Message: "analytics not configured; set GA_PROPERTY_ID and GA_CREDENTIALS_FILE",
		})
		return
	}

	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if startDate == "" || endDate == "" {
		h.writeError(w, &Error{Code: CodeInvalidDateRange, Message: "both startDate and endDate are required"})
		return
	}
	if err := ValidateDateRange(startDate, endDate); err != nil {
		h.writeError(w, err)
		return
	}

	params := map[string]string{"startDate": startDate, "endDate": endDate}
	for k, v := range extraParams {
		params[k] = v
	}
	key := cache.Key(endpoint, params)

	if data, ok := h.cache.Get(key); ok {
		response.JSON(w, http.StatusOK, reportEnvelope{Success: true, Data: data, Cached: true})
		return
	}

	data, err := fetch(startDate, endDate)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.cache.Set(key, data, reportTTL)
	response.JSON(w, http.StatusOK, reportEnvelope{Success: true, Data: data, Cached: false})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var aerr *Error
	if errors.As(err, &aerr) {
		response.Error(w, aerr.HTTPStatus(), aerr.Message)
		return
	}
	log.Printf("analytics: report failed: %v", err)
	response.InternalError(w)
}
