package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/csg33k/ldpr-reports/internal/domain"
)

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, err := h.sessions.get(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return nil, false
	}
	return sess, true
}

// fail maps controller errors to status codes.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrItemOutOfRange),
		errors.Is(err, domain.ErrStepOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrSubmitInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrNoArtifact):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) pageData(sess *session) pageData {
	return pageData{
		View:           sess.ctrl.View(),
		UserID:         sess.userID,
		DownloadTicket: sess.pending.current(),
		cat:            h.cat,
	}
}

// renderWizard re-renders the whole wizard block.
func (h *Handler) renderWizard(w http.ResponseWriter, r *http.Request, sess *session) {
	render(w, r, component("wizard", h.pageData(sess)))
}

// renderUpdate sends out-of-band swaps for the stepper, the banner and the
// error slots of the current step, so typing does not replace the inputs.
func (h *Handler) renderUpdate(w http.ResponseWriter, r *http.Request, sess *session) {
	d := h.pageData(sess)
	d.OOB = true
	render(w, r, component("update", d))
}

func (h *Handler) wizardPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	render(w, r, component("page", h.pageData(sess)))
}

func (h *Handler) prefill(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var p domain.DeputyProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid profile", http.StatusBadRequest)
		return
	}
	sess.ctrl.Prefill(r.Context(), p)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setField(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	f, err := domain.ParseField(r.FormValue("path"))
	if err != nil {
		fail(w, err)
		return
	}
	if err := sess.ctrl.SetField(r.Context(), f, r.FormValue("value")); err != nil {
		fail(w, err)
		return
	}
	// Fields that change the layout, like a legislation status, ask for
	// the whole wizard back.
	if r.FormValue("render") == "wizard" {
		h.renderWizard(w, r, sess)
		return
	}
	h.renderUpdate(w, r, sess)
}

func (h *Handler) blur(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	f, err := domain.ParseField(r.FormValue("path"))
	if err != nil {
		fail(w, err)
		return
	}
	sess.ctrl.Blur(r.Context(), f)
	h.renderUpdate(w, r, sess)
}

var linkOwners = map[string]domain.LinkOwnerKind{
	"profile":     domain.LinksProfile,
	"legislation": domain.LinksLegislation,
	"example":     domain.LinksExample,
	"svo":         domain.LinksSVOProject,
}

func (h *Handler) setLinks(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	kind, ok := linkOwners[r.FormValue("owner")]
	if !ok {
		http.Error(w, "unknown link owner", http.StatusBadRequest)
		return
	}
	owner := domain.LinkOwner{Kind: kind, Index: atoiOr(r.FormValue("index"), -1)}
	links := r.Form["link"]
	switch r.FormValue("op") {
	case "add":
		links = append(links, "")
	case "remove":
		if i := atoiOr(r.FormValue("at"), -1); i >= 0 && i < len(links) {
			links = append(links[:i:i], links[i+1:]...)
		}
	}
	if err := sess.ctrl.SetLinks(r.Context(), owner, links); err != nil {
		fail(w, err)
		return
	}
	h.renderWizard(w, r, sess)
}

func (h *Handler) setReception(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	rc, ok := domain.ReceptionByKey(r.FormValue("key"))
	if !ok {
		http.Error(w, "unknown reception", http.StatusBadRequest)
		return
	}
	held := r.FormValue("held")
	sess.ctrl.SetReception(r.Context(), rc, held == "on" || held == "1" || held == "true")
	h.renderUpdate(w, r, sess)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	k, ok := domain.ListByKey(r.PathValue("list"))
	if !ok {
		http.Error(w, "unknown list", http.StatusBadRequest)
		return
	}
	sess.ctrl.AddItem(r.Context(), k)
	h.renderWizard(w, r, sess)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	k, ok := domain.ListByKey(r.PathValue("list"))
	if !ok {
		http.Error(w, "unknown list", http.StatusBadRequest)
		return
	}
	i, err := pathInt(r, "index")
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}
	if err := sess.ctrl.RemoveItem(r.Context(), k, i); err != nil {
		fail(w, err)
		return
	}
	h.renderWizard(w, r, sess)
}

func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.ctrl.Next(r.Context())
	h.renderWizard(w, r, sess)
}

func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.ctrl.Back(r.Context())
	h.renderWizard(w, r, sess)
}

func (h *Handler) jumpTo(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	i, err := pathInt(r, "index")
	if err != nil {
		http.Error(w, "invalid step", http.StatusBadRequest)
		return
	}
	if err := sess.ctrl.JumpTo(r.Context(), domain.Step(i)); err != nil {
		fail(w, err)
		return
	}
	h.renderWizard(w, r, sess)
}

// submit always answers with the re-rendered wizard: validation and
// submission failures are shown in the banner.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := sess.ctrl.Submit(r.Context()); errors.Is(err, domain.ErrSubmitInProgress) {
		fail(w, err)
		return
	}
	h.renderWizard(w, r, sess)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.ctrl.Download(r.Context()); err != nil {
		fail(w, err)
		return
	}
	h.renderWizard(w, r, sess)
}

// fetchDownload streams the artifact the controller asked for.
func (h *Handler) fetchDownload(w http.ResponseWriter, r *http.Request) {
	ticket := r.PathValue("ticket")
	sess, ok := h.sessions.byTicket(ticket)
	if !ok {
		http.NotFound(w, r)
		return
	}
	url, filename, ok := sess.pending.take(ticket)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	ct, err := h.api.WithToken(sess.token).Fetch(r.Context(), url, &buf)
	if err != nil {
		h.log.Warn().Err(err).Str("url", url).Msg("fetch artifact")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	if ct == "" {
		ct = "application/pdf"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Write(buf.Bytes())
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.ctrl.Edit(r.Context()); err != nil {
		fail(w, err)
		return
	}
	h.renderWizard(w, r, sess)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.ctrl.Clear(r.Context()); err != nil {
		fail(w, err)
		return
	}
	h.renderWizard(w, r, sess)
}

func (h *Handler) dismissBanner(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.ctrl.DismissBanner()
	w.WriteHeader(http.StatusOK)
}
