package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/report"
)

const maxReportBody = 2 << 20

type apiResponse struct {
	Status  domain.SubmissionStatus `json:"status"`
	Message string                  `json:"message"`
	Errors  map[string]string       `json:"errors,omitempty"`
}

type createReportRequest struct {
	UserID int64            `json:"user_id"`
	Data   *domain.Snapshot `json:"data"`
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Pong"})
}

func (h *Handler) createReport(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReportBody))
	if err := dec.Decode(&req); err != nil || req.Data == nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Status: domain.SubmissionFailure, Message: "invalid request body"})
		return
	}

	created, err := h.reports.Create(r.Context(), h.publicBase(r), req.UserID, req.Data)
	var ve *report.ValidationError
	switch {
	case errors.As(err, &ve):
		fields := make(map[string]string, len(ve.Problems))
		for _, p := range ve.Problems {
			fields[p.Field.Path()] = p.Message
		}
		writeJSON(w, http.StatusUnprocessableEntity, apiResponse{
			Status:  domain.SubmissionFailure,
			Message: "report has unfilled required fields",
			Errors:  fields,
		})
	case err != nil:
		h.log.Error().Err(err).Int64("user_id", req.UserID).Msg("create report")
		writeJSON(w, http.StatusInternalServerError, apiResponse{Status: domain.SubmissionFailure, Message: err.Error()})
	default:
		writeJSON(w, http.StatusOK, apiResponse{Status: domain.SubmissionSuccess, Message: created.URL})
	}
}

type reportItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handler) listReports(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user_id", 400)
		return
	}
	list, err := h.reports.List(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	out := make([]reportItem, 0, len(list))
	base := h.publicBase(r)
	for _, rep := range list {
		out = append(out, reportItem{
			ID:        rep.ID,
			UserID:    rep.UserID,
			URL:       report.MediaURL(base, rep.PDFName),
			CreatedAt: rep.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) media(w http.ResponseWriter, r *http.Request) {
	p, err := h.reports.MediaPath(r.PathValue("name"))
	if errors.Is(err, domain.ErrReportNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, p)
}
