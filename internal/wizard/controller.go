// Package wizard drives the nine-step deputy report form: it owns the
// snapshot of one user, tracks which fields and steps were touched, gates
// the final submission on validation and persists every change.
//
// Navigation is never blocked. Validation problems only turn into visible
// errors and a banner; the only gated transition is Submit.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/ports"
	"github.com/csg33k/ldpr-reports/internal/validation"
)

type Options struct {
	UserID     int64
	Drafts     ports.DraftRepository
	Submitter  ports.ReportSubmitter
	Downloader ports.ArtifactDownloader
	Logger     zerolog.Logger
	Now        func() time.Time
}

// Controller is safe for concurrent use; operations of one user are
// serialized. The submit call itself runs without holding the lock.
type Controller struct {
	userID     int64
	drafts     ports.DraftRepository
	submitter  ports.ReportSubmitter
	downloader ports.ArtifactDownloader
	log        zerolog.Logger
	now        func() time.Time

	mu          sync.Mutex
	snap        *domain.Snapshot
	step        domain.Step
	interacted  domain.StepFlags
	attempted   bool
	errs        map[domain.Field]string
	touched     map[domain.Field]bool
	submitting  bool
	downloading bool
	submitted   bool
	artifactURL string
	banner      *Banner
	prefilled   bool
}

// New restores the user's draft. Storage failures are logged and the
// defaults are used instead.
func New(ctx context.Context, opts Options) *Controller {
	c := &Controller{
		userID:     opts.UserID,
		drafts:     opts.Drafts,
		submitter:  opts.Submitter,
		downloader: opts.Downloader,
		log:        opts.Logger.With().Str("component", "wizard").Int64("user_id", opts.UserID).Logger(),
		now:        opts.Now,
		snap:       domain.NewSnapshot(),
		errs:       map[domain.Field]string{},
		touched:    map[domain.Field]bool{},
	}
	if c.now == nil {
		c.now = time.Now
	}

	d, err := c.drafts.Load(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("load draft")
	}
	if d.Snapshot != nil {
		c.snap = d.Snapshot
	}
	if d.Step.Valid() {
		c.step = d.Step
	}
	c.interacted = d.Interacted

	sub, err := c.drafts.Submission(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("load submission state")
	}
	c.submitted = sub.Submitted
	c.artifactURL = sub.ArtifactURL
	return c
}

// Prefill copies the host's deputy profile into empty general fields. It
// runs at most once per controller.
func (c *Controller) Prefill(ctx context.Context, p domain.DeputyProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.prefilled {
		return
	}
	c.prefilled = true

	g := &c.snap.GeneralInfo
	if g.FullName == "" && p.LastName != "" && p.FirstName != "" {
		g.FullName = strings.TrimSpace(p.LastName + " " + p.FirstName + " " + p.MiddleName)
	}
	fill := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}
	fill(&g.Region, p.Region)
	fill(&g.RepresentativeLevel, p.RepresentativeBodyLevel)
	fill(&g.AuthorityName, p.RepresentativeBodyName)
	fill(&g.Position, p.RepresentativeBodyPosition)
	fill(&g.LDPRPosition, p.PartyPosition)
	if len(g.Committees) == 0 && p.CommitteeName != "" {
		g.Committees = []string{p.CommitteeName}
	}
	if len(g.Links) == 0 || g.Links[0] == "" {
		var links []string
		for _, l := range []string{p.VKPage, p.VKGroup, p.TelegramChannel, p.PersonalSite} {
			if l != "" {
				links = append(links, l)
			}
		}
		if len(links) > 0 {
			g.Links = links
		}
	}
	c.save(ctx)
}

// ── Field mutations ───────────────────────────────────────────────────────────

// SetField stores value and marks the owning step interacted. A touched
// field is re-validated; attendance pairs are re-checked on every change.
func (c *Controller) SetField(ctx context.Context, f domain.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.snap.Set(f, value); err != nil {
		return err
	}
	c.interacted[f.Step()] = true
	if c.touched[f] {
		c.setError(f, validation.Validate(f, c.snap))
	}
	if p, ok := validation.PairOf(f.Kind); ok {
		c.checkPair(p)
	}
	c.save(ctx)
	return nil
}

// checkPair shows the attended > total error immediately and clears it as
// soon as the pair is consistent again. Other errors on the field stay.
func (c *Controller) checkPair(p validation.Pair) {
	att := domain.F(p.Attended)
	if validation.ExceedsTotal(p, c.snap) {
		c.errs[att] = validation.MsgExceedsTotal
		c.touched[att] = true
		return
	}
	if c.errs[att] == validation.MsgExceedsTotal {
		delete(c.errs, att)
	}
}

// Blur marks f touched and records its current error.
func (c *Controller) Blur(ctx context.Context, f domain.Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touched[f] = true
	c.setError(f, validation.Validate(f, c.snap))
	c.interacted[f.Step()] = true
	c.save(ctx)
}

func (c *Controller) SetLinks(ctx context.Context, o domain.LinkOwner, links []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.snap.SetLinks(o, links); err != nil {
		return err
	}
	c.interacted[o.Step()] = true
	c.save(ctx)
	return nil
}

func (c *Controller) SetReception(ctx context.Context, r domain.Reception, held bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.CitizenRequests.CitizenDayReceptions.SetHeld(r, held)
	c.interacted[domain.StepStats] = true
	c.save(ctx)
}

// AddItem appends a blank item to list k and returns its index.
func (c *Controller) AddItem(ctx context.Context, k domain.ListKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.AddItem(k)
	c.interacted[k.Step()] = true
	c.save(ctx)
	return c.snap.Len(k) - 1
}

// RemoveItem deletes item index of list k. Touched and error entries of the
// following items move down with them.
func (c *Controller) RemoveItem(ctx context.Context, k domain.ListKind, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.snap.RemoveItem(k, index); err != nil {
		return err
	}
	c.errs = rekey(c.errs, k, index)
	c.touched = rekey(c.touched, k, index)
	c.interacted[k.Step()] = true
	c.save(ctx)
	return nil
}

func rekey[V any](m map[domain.Field]V, k domain.ListKind, removed int) map[domain.Field]V {
	out := make(map[domain.Field]V, len(m))
	for f, v := range m {
		if lk, ok := f.List(); ok && lk == k {
			switch {
			case f.Index == removed:
				continue
			case f.Index > removed:
				f.Index--
			}
		}
		out[f] = v
	}
	return out
}

// ── Navigation ────────────────────────────────────────────────────────────────

func (c *Controller) Next(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step < domain.StepCount-1 {
		c.moveTo(c.step + 1)
	} else {
		c.leave()
	}
	c.save(ctx)
}

func (c *Controller) Back(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step > 0 {
		c.moveTo(c.step - 1)
	} else {
		c.leave()
	}
	c.save(ctx)
}

func (c *Controller) JumpTo(ctx context.Context, step domain.Step) error {
	if !step.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrStepOutOfRange, int(step))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveTo(step)
	c.save(ctx)
	return nil
}

func (c *Controller) moveTo(step domain.Step) {
	c.leave()
	c.step = step
	if c.attempted {
		c.highlight(step)
	}
}

// leave makes the errors of the current step visible if the user worked on it.
func (c *Controller) leave() {
	if c.interacted[c.step] {
		c.highlight(c.step)
	}
}

// highlight validates every field of step and marks them touched.
func (c *Controller) highlight(step domain.Step) bool {
	valid := true
	for _, f := range validation.StepFields(step, c.snap) {
		c.touched[f] = true
		msg := validation.Validate(f, c.snap)
		c.setError(f, msg)
		if msg != "" {
			valid = false
		}
	}
	return valid
}

func (c *Controller) setError(f domain.Field, msg string) {
	if msg == "" {
		delete(c.errs, f)
		return
	}
	c.errs[f] = msg
}

// ── Submission ────────────────────────────────────────────────────────────────

// Submit validates every step and sends the report. An incomplete report is
// never sent; the banner explains what to fix. After a successful submit the
// artifact is downloaded once; a failed download does not undo the submit.
func (c *Controller) Submit(ctx context.Context) (domain.SubmissionResult, error) {
	failed := domain.SubmissionResult{Status: domain.SubmissionFailure}

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return failed, domain.ErrSubmitInProgress
	}
	c.attempted = true
	c.banner = nil
	if invalid := validation.InvalidSteps(c.snap); len(invalid) > 0 {
		c.banner = &Banner{Kind: BannerError, Message: MsgIncomplete}
		c.highlight(c.step)
		c.mu.Unlock()
		return failed, fmt.Errorf("%w: %d steps", domain.ErrIncomplete, len(invalid))
	}
	c.submitting = true
	snap := c.snap.Clone()
	c.mu.Unlock()

	res, err := c.submitter.Submit(ctx, c.userID, snap)
	if err == nil && (res.Status != domain.SubmissionSuccess || res.ArtifactURL == "") {
		err = domain.ErrSubmissionFailed
	}
	var dlErr error
	if err == nil {
		dlErr = c.downloader.Download(ctx, res.ArtifactURL, c.filename(snap))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.log.Warn().Err(err).Msg("submit report")
		c.banner = &Banner{Kind: BannerError, Message: msgSubmitError + err.Error()}
		return failed, err
	}

	c.log.Info().Str("url", res.ArtifactURL).Msg("report submitted")
	c.submitted = true
	c.artifactURL = res.ArtifactURL
	if err := c.drafts.MarkSubmitted(ctx, res.ArtifactURL); err != nil {
		c.log.Error().Err(err).Msg("persist submission state")
	}
	c.banner = c.downloadBanner(dlErr)
	return res, nil
}

// Download fetches the artifact of the last successful submit again.
func (c *Controller) Download(ctx context.Context) error {
	c.mu.Lock()
	url := c.artifactURL
	if url == "" {
		c.mu.Unlock()
		return domain.ErrNoArtifact
	}
	if c.downloading {
		c.mu.Unlock()
		return nil
	}
	c.downloading = true
	name := c.filename(c.snap)
	c.mu.Unlock()

	err := c.downloader.Download(ctx, url, name)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.downloading = false
	c.banner = c.downloadBanner(err)
	return err
}

func (c *Controller) downloadBanner(err error) *Banner {
	if err != nil {
		c.log.Warn().Err(err).Msg("download report")
		return &Banner{Kind: BannerError, Message: msgDownloadFail + err.Error()}
	}
	return &Banner{Kind: BannerSuccess, Message: MsgDownloaded}
}

func (c *Controller) filename(s *domain.Snapshot) string {
	return Filename(s.GeneralInfo.FullName, c.now())
}

// Filename is the name a generated report is saved under on day.
func Filename(fullName string, day time.Time) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		name = "депутата"
	}
	return "Отчет_ЛДПР_" + name + "_" + day.Format("02.01.2006") + ".pdf"
}

// Edit leaves the success view and returns to the (still filled) form. It is
// refused while a submit is in flight.
func (c *Controller) Edit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return domain.ErrSubmitInProgress
	}
	c.submitted = false
	c.artifactURL = ""
	c.banner = nil
	if err := c.drafts.ClearSubmission(ctx); err != nil {
		c.log.Error().Err(err).Msg("clear submission state")
	}
	return nil
}

// Clear resets the form to the empty template and forgets every flag. It is
// refused while a submit is in flight.
func (c *Controller) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return domain.ErrSubmitInProgress
	}
	c.snap = domain.NewSnapshot()
	c.step = domain.StepGeneral
	c.interacted = domain.StepFlags{}
	c.attempted = false
	c.errs = map[domain.Field]string{}
	c.touched = map[domain.Field]bool{}
	c.submitted = false
	c.artifactURL = ""
	if err := c.drafts.Clear(ctx); err != nil {
		c.log.Error().Err(err).Msg("clear draft")
	}
	c.banner = &Banner{Kind: BannerSuccess, Message: MsgCleared}
	return nil
}

// Busy reports whether a submit or download is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting || c.downloading
}

// DismissBanner hides the current banner.
func (c *Controller) DismissBanner() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.banner = nil
}

func (c *Controller) save(ctx context.Context) {
	err := c.drafts.Save(ctx, ports.Draft{
		Snapshot:   c.snap,
		Step:       c.step,
		Interacted: c.interacted,
	})
	if err != nil {
		c.log.Error().Err(err).Msg("save draft")
	}
}
