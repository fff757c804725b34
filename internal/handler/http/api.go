package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketpulse/internal/config"
	"marketpulse/internal/domain/entity"
	"marketpulse/internal/handler/http/respond"
	"marketpulse/internal/infra/export"
	"marketpulse/internal/observability/logging"
	"marketpulse/internal/usecase/analysis"
	"marketpulse/internal/usecase/dashboard"
	"marketpulse/internal/usecase/headline"
)

// APIHandler serves the /api endpoints.
type APIHandler struct {
	Dashboard *dashboard.Service
	Presets   config.DashboardPresets
	Now       func() time.Time
}

// FeedURLResponse is the body of /api/feed-url.
type FeedURLResponse struct {
	URL string `json:"url"`
}

// HeadlinesResponse is the body of /api/headlines.
type HeadlinesResponse struct {
	URL         string           `json:"url"`
	Count       int              `json:"count"`
	Articles    []entity.Article `json:"articles"`
	FetchFailed bool             `json:"fetch_failed,omitempty"`
}

// FeedURL handles GET /api/feed-url.
func (h *APIHandler) FeedURL(w http.ResponseWriter, r *http.Request) {
	feedURL, err := h.Dashboard.FeedURL(parseFeedQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, FeedURLResponse{URL: feedURL})
}

// Headlines handles GET /api/headlines. A failed fetch still answers 200
// with an empty list, flagged with fetch_failed.
func (h *APIHandler) Headlines(w http.ResponseWriter, r *http.Request) {
	maxArticles, err := intParam(r, "max")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	feedURL, err := h.Dashboard.FeedURL(parseFeedQuery(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	articles, fetchErr := h.Dashboard.Source.Collect(r.Context(), feedURL, headline.ClampMaxArticles(maxArticles))
	if err := r.Context().Err(); err != nil {
		h.writeError(w, r, err)
		return
	}
	if fetchErr != nil {
		logging.FromContext(r.Context()).Warn("headlines fetch failed", "url", feedURL, "error", fetchErr)
	}
	respond.JSON(w, http.StatusOK, HeadlinesResponse{
		URL:         feedURL,
		Count:       len(articles),
		Articles:    articles,
		FetchFailed: fetchErr != nil,
	})
}

// DashboardReport handles GET /api/dashboard.
func (h *APIHandler) DashboardReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.build(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, report)
}

// Export handles GET /api/export?format=csv|json. The file holds every row
// of the report; a report without rows produces a header-only CSV or "[]".
func (h *APIHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	report, ok := h.build(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename=%q`, export.FileName(h.now(), format)))
	w.Header().Set("X-Report-Status", string(report.Status))
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, format, report.Rows); err != nil {
		logging.FromContext(r.Context()).Error("export write failed", "error", err)
	}
}

// PresetsResponse is the body of /api/presets.
type PresetsResponse struct {
	config.DashboardPresets
	MinMaxArticles int `json:"min_max_articles"`
	MaxMaxArticles int `json:"max_max_articles"`
}

// PresetsHandler handles GET /api/presets: the choices offered by a UI.
func (h *APIHandler) PresetsHandler(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, PresetsResponse{
		DashboardPresets: h.Presets,
		MinMaxArticles:   headline.MinMaxArticles,
		MaxMaxArticles:   headline.MaxMaxArticles,
	})
}

func (h *APIHandler) build(w http.ResponseWriter, r *http.Request) (*dashboard.Report, bool) {
	req, err := parseDashboardRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	report, err := h.Dashboard.Build(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return report, true
}

func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		respond.SafeError(w, http.StatusGatewayTimeout, respond.NewAppError(http.StatusGatewayTimeout, "request timeout", err))
	case errors.Is(err, context.Canceled):
		logging.FromContext(r.Context()).Debug("client went away", "path", r.URL.Path)
		respond.SafeError(w, http.StatusServiceUnavailable, respond.NewAppError(http.StatusServiceUnavailable, "request canceled", nil))
	case errors.Is(err, dashboard.ErrInvalidRequest), errors.Is(err, errBadParam), errors.Is(err, export.ErrUnsupportedFormat):
		respond.SafeError(w, http.StatusBadRequest, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

func (h *APIHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

var errBadParam = errors.New("invalid parameter")

// paramError is a client error in a query parameter.
type paramError struct {
	name string
	msg  string
}

func (e *paramError) Error() string { return e.name + " " + e.msg }
func (e *paramError) Unwrap() error { return errBadParam }

func parseFeedQuery(r *http.Request) entity.FeedQuery {
	q := r.URL.Query()
	return entity.FeedQuery{
		Query:    q.Get("query"),
		Region:   q.Get("region"),
		Category: q.Get("category"),
		Language: q.Get("language"),
	}
}

func parseDashboardRequest(r *http.Request) (dashboard.Request, error) {
	maxArticles, err := intParam(r, "max")
	if err != nil {
		return dashboard.Request{}, err
	}
	headlines, err := intParam(r, "headlines")
	if err != nil {
		return dashboard.Request{}, err
	}

	q := r.URL.Query()
	req := dashboard.Request{
		Query:       parseFeedQuery(r),
		MaxArticles: maxArticles,
		Filter:      q.Get("filter"),
		Headlines:   headlines,
	}
	// An explicit, empty exclude disables exclusion; absence keeps the defaults.
	if q.Has("exclude") {
		req.Exclude = analysis.ParseWordList(q.Get("exclude"))
		if req.Exclude == nil {
			req.Exclude = []string{}
		}
	}
	return req, nil
}

// intParam returns 0 when the parameter is absent.
func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, msg: "must be an integer"}
	}
	return n, nil
}
