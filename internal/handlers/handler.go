package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/rs/zerolog"

	"github.com/csg33k/ldpr-reports/internal/adapters/reportapi"
	"github.com/csg33k/ldpr-reports/internal/catalog"
	"github.com/csg33k/ldpr-reports/internal/ports"
	"github.com/csg33k/ldpr-reports/internal/report"
)

// Deps wires the handler. Reports may be nil when the process only serves
// the wizard and talks to a remote report endpoint through API.
type Deps struct {
	Reports       *report.Service
	Drafts        func(userID int64) ports.DraftRepository
	API           *reportapi.Client
	Catalog       *catalog.Catalog
	PublicBaseURL string
	SessionTTL    time.Duration // idle wizard sessions are dropped after this; 0 means DefaultSessionTTL
	Logger        zerolog.Logger
}

type Handler struct {
	reports  *report.Service
	api      *reportapi.Client
	cat      *catalog.Catalog
	baseURL  string
	log      zerolog.Logger
	sessions *sessions
}

func New(d Deps) *Handler {
	cat := d.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	log := d.Logger.With().Str("component", "http").Logger()
	return &Handler{
		reports:  d.Reports,
		api:      d.API,
		cat:      cat,
		baseURL:  strings.TrimRight(d.PublicBaseURL, "/"),
		log:      log,
		sessions: newSessions(d.Drafts, d.API, d.SessionTTL, d.Logger),
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	if h.reports != nil {
		mux.HandleFunc("GET /api/reports/ping", h.ping)
		mux.HandleFunc("POST /api/reports/{$}", h.createReport)
		mux.HandleFunc("GET /api/reports/{$}", h.listReports)
		mux.HandleFunc("GET /api/reports/media/{name}", h.media)
	}

	mux.HandleFunc("GET /wizard", h.wizardPage)
	mux.HandleFunc("POST /wizard/prefill", h.prefill)
	mux.HandleFunc("POST /wizard/field", h.setField)
	mux.HandleFunc("POST /wizard/blur", h.blur)
	mux.HandleFunc("POST /wizard/links", h.setLinks)
	mux.HandleFunc("POST /wizard/reception", h.setReception)
	mux.HandleFunc("POST /wizard/items/{list}", h.addItem)
	mux.HandleFunc("DELETE /wizard/items/{list}/{index}", h.removeItem)
	mux.HandleFunc("POST /wizard/next", h.next)
	mux.HandleFunc("POST /wizard/back", h.back)
	mux.HandleFunc("POST /wizard/step/{index}", h.jumpTo)
	mux.HandleFunc("POST /wizard/submit", h.submit)
	mux.HandleFunc("POST /wizard/download", h.download)
	mux.HandleFunc("GET /wizard/download/{ticket}", h.fetchDownload)
	mux.HandleFunc("POST /wizard/edit", h.edit)
	mux.HandleFunc("POST /wizard/clear", h.clear)
	mux.HandleFunc("DELETE /wizard/banner", h.dismissBanner)
	return h.logRequests(mux)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		h.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Int("status", sw.status).Msg("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), 500)
	}
}

// component adapts a named html/template to templ.Component.
func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func pathInt(r *http.Request, key string) (int, error) {
	return strconv.Atoi(r.PathValue(key))
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// publicBase is the origin used for artifact links: the configured public
// URL, otherwise the origin the request came in on.
func (h *Handler) publicBase(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host
}
