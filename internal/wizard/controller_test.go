package wizard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/ports"
	"github.com/csg33k/ldpr-reports/internal/testsupport"
	"github.com/csg33k/ldpr-reports/internal/validation"
	"github.com/csg33k/ldpr-reports/internal/wizard"
)

const artifactURL = "https://host/api/reports/media/report_1.pdf"

var today = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

type harness struct {
	c      *wizard.Controller
	drafts *memDrafts
	sub    *stubSubmitter
	dl     *stubDownloader
}

func newHarness(t *testing.T, drafts *memDrafts) *harness {
	t.Helper()
	if drafts == nil {
		drafts = &memDrafts{}
	}
	h := &harness{
		drafts: drafts,
		sub:    &stubSubmitter{result: domain.SubmissionResult{Status: domain.SubmissionSuccess, ArtifactURL: artifactURL}},
		dl:     &stubDownloader{},
	}
	h.c = h.open()
	return h
}

func (h *harness) open() *wizard.Controller {
	return wizard.New(context.Background(), wizard.Options{
		UserID:     77,
		Drafts:     h.drafts,
		Submitter:  h.sub,
		Downloader: h.dl,
		Logger:     zerolog.Nop(),
		Now:        func() time.Time { return today },
	})
}

// withDraft seeds storage with s at step.
func withDraft(s *domain.Snapshot, step domain.Step) *memDrafts {
	return &memDrafts{draft: &ports.Draft{Snapshot: s, Step: step}}
}

func statuses(v wizard.View) map[domain.Step]domain.StepStatus {
	out := map[domain.Step]domain.StepStatus{}
	for _, s := range v.Steps {
		out[s.Step] = s.Status
	}
	return out
}

func setGeneral(t *testing.T, c *wizard.Controller) {
	t.Helper()
	ctx := context.Background()
	values := map[domain.FieldKind]string{
		domain.FieldFullName:            "Иванов Иван Иванович",
		domain.FieldDistrict:            "Округ №7",
		domain.FieldRegion:              "Московская область",
		domain.FieldRepresentativeLevel: "Региональный",
		domain.FieldAuthorityName:       "Московская областная дума",
		domain.FieldTermStart:           "15.01.2024",
		domain.FieldTermEnd:             "15.01.2029",
		domain.FieldPosition:            "Депутат",
		domain.FieldLDPRPosition:        "Руководитель фракции",
	}
	for k, v := range values {
		require.NoError(t, c.SetField(ctx, domain.F(k), v))
	}
}

func TestNew_Defaults(t *testing.T) {
	h := newHarness(t, nil)
	v := h.c.View()

	assert.Equal(t, domain.StepGeneral, v.Step)
	assert.False(t, v.Submitted)
	assert.Nil(t, v.Banner)
	assert.Empty(t, cmp.Diff(domain.NewSnapshot(), v.Snapshot))
	for _, s := range v.Steps {
		assert.Equal(t, domain.StatusNeutral, s.Status, s.Step.ID())
	}
	assert.True(t, v.Steps[0].Current)
}

func TestSubmit_EmptySnapshotIsBlocked(t *testing.T) {
	h := newHarness(t, nil)

	res, err := h.c.Submit(context.Background())
	require.ErrorIs(t, err, domain.ErrIncomplete)
	assert.Equal(t, domain.SubmissionFailure, res.Status)
	assert.Zero(t, h.sub.callCount(), "no network call for an incomplete report")

	v := h.c.View()
	require.NotNil(t, v.Banner)
	assert.Equal(t, wizard.BannerError, v.Banner.Kind)
	assert.Equal(t, wizard.MsgIncomplete, v.Banner.Message)
	assert.True(t, v.Attempted)

	st := statuses(v)
	for _, step := range []domain.Step{domain.StepGeneral, domain.StepActivity, domain.StepStats} {
		assert.Equal(t, domain.StatusError, st[step], step.ID())
	}
	for _, step := range []domain.Step{domain.StepLegislation, domain.StepExamples, domain.StepSVO, domain.StepProjects, domain.StepOrders, domain.StepOther} {
		assert.Equal(t, domain.StatusNeutral, st[step], step.ID())
	}

	// The current step is highlighted.
	assert.Equal(t, validation.MsgRequired, v.Error(domain.F(domain.FieldFullName)))
}

func TestSubmit_OnlyGeneralFilled(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	setGeneral(t, h.c)

	for i := 0; i < 8; i++ {
		h.c.Next(ctx)
	}
	require.Equal(t, domain.StepOther, h.c.View().Step)

	_, err := h.c.Submit(ctx)
	require.ErrorIs(t, err, domain.ErrIncomplete)
	assert.Zero(t, h.sub.callCount())

	st := statuses(h.c.View())
	assert.Equal(t, domain.StatusSuccess, st[domain.StepGeneral])
	assert.Equal(t, domain.StatusError, st[domain.StepActivity])
	assert.Equal(t, domain.StatusError, st[domain.StepStats])
	assert.Equal(t, domain.StatusNeutral, st[domain.StepLegislation])
}

func TestLegislation_RejectionReason(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	i := h.c.AddItem(ctx, domain.ListLegislation)
	require.Equal(t, 0, i)
	require.NoError(t, h.c.SetField(ctx, domain.Item(domain.FieldLegislationTitle, i), "О бюджете"))
	require.NoError(t, h.c.SetField(ctx, domain.Item(domain.FieldLegislationSummary, i), "Поправки"))
	require.NoError(t, h.c.SetField(ctx, domain.Item(domain.FieldLegislationStatus, i), domain.StatusRejected))

	assert.Equal(t, domain.StatusError, statuses(h.c.View())[domain.StepLegislation])

	reason := domain.Item(domain.FieldLegislationRejectionReason, i)
	h.c.Blur(ctx, reason)
	assert.NotEmpty(t, h.c.VisibleError(reason))

	require.NoError(t, h.c.SetField(ctx, reason, "Нет кворума"))
	assert.Empty(t, h.c.VisibleError(reason))
	assert.Equal(t, domain.StatusSuccess, statuses(h.c.View())[domain.StepLegislation])
}

func TestSubmit_Success(t *testing.T) {
	h := newHarness(t, withDraft(testsupport.ValidSnapshot(), domain.StepOther))
	ctx := context.Background()

	res, err := h.c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionSuccess, res.Status)
	assert.Equal(t, artifactURL, res.ArtifactURL)

	assert.Equal(t, 1, h.sub.callCount())
	assert.Equal(t, []int64{77}, h.sub.userIDs)
	assert.Equal(t, []string{artifactURL}, h.drafts.submitted)
	require.Len(t, h.dl.calls, 1, "download triggered exactly once")
	assert.Equal(t, download{artifactURL, "Отчет_ЛДПР_Иванов Иван Иванович_16.10.2026.pdf"}, h.dl.calls[0])

	v := h.c.View()
	assert.True(t, v.Submitted)
	assert.Equal(t, artifactURL, v.ArtifactURL)
	require.NotNil(t, v.Banner)
	assert.Equal(t, wizard.MsgDownloaded, v.Banner.Message)

	// A reload shows the success view again.
	reloaded := h.open().View()
	assert.True(t, reloaded.Submitted)
	assert.Equal(t, artifactURL, reloaded.ArtifactURL)
}

func TestSubmit_DownloadFailureKeepsSubmission(t *testing.T) {
	h := newHarness(t, withDraft(testsupport.ValidSnapshot(), domain.StepOther))
	h.dl.err = errors.New("disk full")

	_, err := h.c.Submit(context.Background())
	require.NoError(t, err)

	v := h.c.View()
	assert.True(t, v.Submitted)
	require.NotNil(t, v.Banner)
	assert.Equal(t, wizard.BannerError, v.Banner.Kind)
	assert.Contains(t, v.Banner.Message, "disk full")
}

func TestSubmit_FailureLeavesFormIntact(t *testing.T) {
	snap := testsupport.ValidSnapshot()
	h := newHarness(t, withDraft(snap, domain.StepOther))
	h.sub.err = errors.New("connection refused")
	h.sub.result = domain.SubmissionResult{Status: domain.SubmissionFailure}

	_, err := h.c.Submit(context.Background())
	require.Error(t, err)

	v := h.c.View()
	assert.False(t, v.Submitted)
	assert.Empty(t, h.dl.calls)
	assert.Empty(t, h.drafts.submitted)
	require.NotNil(t, v.Banner)
	assert.Equal(t, "Ошибка: connection refused", v.Banner.Message)
	assert.Empty(t, cmp.Diff(snap, v.Snapshot))
}

func TestSubmit_NonSuccessStatusIsFailure(t *testing.T) {
	h := newHarness(t, withDraft(testsupport.ValidSnapshot(), domain.StepOther))
	h.sub.result = domain.SubmissionResult{Status: domain.SubmissionFailure}

	_, err := h.c.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
	assert.Empty(t, h.dl.calls)
}

func TestSubmit_RejectsReentry(t *testing.T) {
	h := newHarness(t, withDraft(testsupport.ValidSnapshot(), domain.StepOther))
	h.sub.entered = make(chan struct{})
	h.sub.gate = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := h.c.Submit(context.Background())
		done <- err
	}()
	<-h.sub.entered

	assert.True(t, h.c.View().Submitting)
	_, err := h.c.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmitInProgress)

	close(h.sub.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, h.sub.callCount())
	assert.False(t, h.c.View().Submitting)
}

func TestSubmit_ClearAndEditWaitForResult(t *testing.T) {
	h := newHarness(t, withDraft(testsupport.ValidSnapshot(), domain.StepOther))
	h.sub.entered = make(chan struct{})
	h.sub.gate = make(chan struct{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := h.c.Submit(ctx)
		done <- err
	}()
	<-h.sub.entered

	assert.ErrorIs(t, h.c.Clear(ctx), domain.ErrSubmitInProgress)
	assert.ErrorIs(t, h.c.Edit(ctx), domain.ErrSubmitInProgress)

	close(h.sub.gate)
	require.NoError(t, <-done)
	v := h.c.View()
	assert.True(t, v.Submitted)
	assert.Equal(t, "Иванов Иван Иванович", v.Snapshot.GeneralInfo.FullName, "form kept while submitting")
	require.Len(t, h.dl.calls, 1)
	assert.Contains(t, h.dl.calls[0].filename, "Иванов Иван Иванович")

	require.NoError(t, h.c.Clear(ctx))
	assert.False(t, h.c.View().Submitted)
}

func TestNavigation_NeverBlocked(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	name := domain.F(domain.FieldFullName)
	require.NoError(t, h.c.SetField(ctx, name, ""))
	h.c.Next(ctx)

	v := h.c.View()
	assert.Equal(t, domain.StepActivity, v.Step)
	assert.Equal(t, validation.MsgRequired, v.Error(name), "errors of the left step become visible")
	assert.Equal(t, domain.StatusError, statuses(v)[domain.StepGeneral])

	require.NoError(t, h.c.JumpTo(ctx, domain.StepOrders))
	assert.Equal(t, domain.StepOrders, h.c.View().Step)
	h.c.Back(ctx)
	assert.Equal(t, domain.StepProjects, h.c.View().Step)

	assert.ErrorIs(t, h.c.JumpTo(ctx, domain.StepCount), domain.ErrStepOutOfRange)
	assert.ErrorIs(t, h.c.JumpTo(ctx, -1), domain.ErrStepOutOfRange)
}

func TestNavigation_UntouchedStepStaysQuiet(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.c.Next(ctx)
	h.c.Next(ctx)
	v := h.c.View()
	assert.Empty(t, v.Errors)
	assert.Equal(t, domain.StatusNeutral, statuses(v)[domain.StepGeneral])
}

func TestNavigation_BoundsAreClamped(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.c.Back(ctx)
	assert.Equal(t, domain.StepGeneral, h.c.View().Step)
	require.NoError(t, h.c.JumpTo(ctx, domain.StepOther))
	h.c.Next(ctx)
	assert.Equal(t, domain.StepOther, h.c.View().Step)
}

func TestAttempted_HighlightsArrivingStep(t *testing.T) {
	h := newHarness(t, withDraft(domain.NewSnapshot(), domain.StepOther))
	ctx := context.Background()

	_, err := h.c.Submit(ctx)
	require.ErrorIs(t, err, domain.ErrIncomplete)
	assert.Empty(t, h.c.View().Error(domain.F(domain.FieldSessionsTotal)))

	require.NoError(t, h.c.JumpTo(ctx, domain.StepActivity))
	assert.Equal(t, validation.MsgCounterRequired, h.c.View().Error(domain.F(domain.FieldSessionsTotal)))
}

func TestAttendancePair_ReactsWhileTyping(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	att := domain.F(domain.FieldCommitteeAttended)
	tot := domain.F(domain.FieldCommitteeTotal)

	require.NoError(t, h.c.SetField(ctx, tot, "5"))
	require.NoError(t, h.c.SetField(ctx, att, "7"))
	assert.Equal(t, validation.MsgExceedsTotal, h.c.VisibleError(att), "shown without blur")

	require.NoError(t, h.c.SetField(ctx, tot, "10"))
	assert.Empty(t, h.c.VisibleError(att), "cleared by editing the total")

	require.NoError(t, h.c.SetField(ctx, tot, "3"))
	assert.Equal(t, validation.MsgExceedsTotal, h.c.VisibleError(att), "raised by editing the total")

	require.NoError(t, h.c.SetField(ctx, tot, ""))
	assert.Empty(t, h.c.VisibleError(att), "no comparison while total is empty")
}

func TestAttendancePair_KeepsRequiredError(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	att := domain.F(domain.FieldLDPRAttended)

	h.c.Blur(ctx, att)
	assert.Equal(t, validation.MsgCounterRequired, h.c.VisibleError(att))

	require.NoError(t, h.c.SetField(ctx, domain.F(domain.FieldLDPRTotal), "4"))
	assert.Equal(t, validation.MsgCounterRequired, h.c.VisibleError(att))
}

func TestBlur_ShowsAndClearsRequired(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	start := domain.F(domain.FieldTermStart)

	assert.Empty(t, h.c.VisibleError(start))
	h.c.Blur(ctx, start)
	assert.Equal(t, validation.MsgRequired, h.c.VisibleError(start))

	require.NoError(t, h.c.SetField(ctx, start, "2024-01-15"))
	assert.Equal(t, validation.MsgDateFormat, h.c.VisibleError(start))
	require.NoError(t, h.c.SetField(ctx, start, "15.01.2024"))
	assert.Empty(t, h.c.VisibleError(start))
}

func TestRemoveItem_RekeysErrors(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		h.c.AddItem(ctx, domain.ListOrders)
	}
	require.NoError(t, h.c.SetField(ctx, domain.Item(domain.FieldOrderInstruction, 1), "Проверить"))
	for i := 0; i < 3; i++ {
		h.c.Blur(ctx, domain.Item(domain.FieldOrderInstruction, i))
	}
	require.NotEmpty(t, h.c.VisibleError(domain.Item(domain.FieldOrderInstruction, 0)))
	require.Empty(t, h.c.VisibleError(domain.Item(domain.FieldOrderInstruction, 1)))

	require.NoError(t, h.c.RemoveItem(ctx, domain.ListOrders, 0))

	v := h.c.View()
	require.Len(t, v.Snapshot.LDPROrders, 2)
	assert.Equal(t, "Проверить", v.Snapshot.LDPROrders[0].Instruction)
	assert.Empty(t, v.Error(domain.Item(domain.FieldOrderInstruction, 0)))
	assert.Equal(t, validation.MsgItemRequired, v.Error(domain.Item(domain.FieldOrderInstruction, 1)))
	assert.Empty(t, v.Error(domain.Item(domain.FieldOrderInstruction, 2)))

	assert.ErrorIs(t, h.c.RemoveItem(ctx, domain.ListOrders, 5), domain.ErrItemOutOfRange)
}

func TestMutations_MarkStepInteracted(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.c.AddItem(ctx, domain.ListExamples)
	h.c.SetReception(ctx, domain.Receptions()[0], true)
	require.NoError(t, h.c.SetLinks(ctx, domain.LinkOwner{Kind: domain.LinksProfile}, []string{"vk.com/x"}))

	flags := h.drafts.lastDraft().Interacted
	assert.True(t, flags[domain.StepExamples])
	assert.True(t, flags[domain.StepStats])
	assert.True(t, flags[domain.StepActivity])
	assert.False(t, flags[domain.StepGeneral])

	v := h.c.View()
	assert.Equal(t, domain.StatusError, statuses(v)[domain.StepExamples], "new empty example is invalid")
	assert.Equal(t, []string{validation.MsgLink}, v.LinkErrors(domain.LinkOwner{Kind: domain.LinksProfile}))
	assert.Equal(t, domain.StatusError, statuses(v)[domain.StepActivity])
	assert.True(t, v.Snapshot.CitizenRequests.CitizenDayReceptions.Held(domain.Receptions()[0]))

	assert.ErrorIs(t, h.c.SetLinks(ctx, domain.LinkOwner{Kind: domain.LinksSVOProject, Index: 3}, nil), domain.ErrItemOutOfRange)
}

func TestPersistence_EveryChangeIsSaved(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	require.NoError(t, h.c.SetField(ctx, domain.F(domain.FieldDistrict), "Округ"))
	require.NoError(t, h.c.SetField(ctx, domain.F(domain.FieldRegion), "Тверская область"))
	h.c.Next(ctx)
	assert.Equal(t, 3, h.drafts.saves)

	reopened := h.open().View()
	assert.Equal(t, domain.StepActivity, reopened.Step)
	assert.Equal(t, "Тверская область", reopened.Snapshot.GeneralInfo.Region)
}

func TestStorageErrorsAreSwallowed(t *testing.T) {
	drafts := &memDrafts{fail: true}
	h := newHarness(t, drafts)
	ctx := context.Background()

	require.NoError(t, h.c.SetField(ctx, domain.F(domain.FieldFullName), "Петров"))
	h.c.Next(ctx)
	require.NoError(t, h.c.Edit(ctx))
	require.NoError(t, h.c.Clear(ctx))
	assert.Equal(t, domain.StepGeneral, h.c.View().Step)

	drafts.fail = false
	drafts.draft = &ports.Draft{Snapshot: testsupport.ValidSnapshot(), Step: domain.StepOther}
	drafts.fail = true
	h.c = h.open()
	assert.Empty(t, h.c.View().Snapshot.GeneralInfo.FullName, "defaults on load failure")

	require.NoError(t, h.c.SetField(ctx, domain.F(domain.FieldFullName), "Петров"))
	_, err := h.c.Submit(ctx)
	assert.ErrorIs(t, err, domain.ErrIncomplete)
}

func TestStatus_IsPure(t *testing.T) {
	h := newHarness(t, nil)
	setGeneral(t, h.c)
	assert.Empty(t, cmp.Diff(h.c.View(), h.c.View()))
}

func TestDownload_Repeat(t *testing.T) {
	drafts := withDraft(testsupport.ValidSnapshot(), domain.StepOther)
	drafts.sub = ports.SubmissionState{Submitted: true, ArtifactURL: artifactURL}
	h := newHarness(t, drafts)
	ctx := context.Background()

	require.NoError(t, h.c.Download(ctx))
	require.NoError(t, h.c.Download(ctx))
	assert.Len(t, h.dl.calls, 2)
	assert.Equal(t, wizard.MsgDownloaded, h.c.View().Banner.Message)

	h.c.DismissBanner()
	assert.Nil(t, h.c.View().Banner)
}

func TestDownload_WithoutArtifact(t *testing.T) {
	h := newHarness(t, nil)
	assert.ErrorIs(t, h.c.Download(context.Background()), domain.ErrNoArtifact)
	assert.Empty(t, h.dl.calls)
}

func TestEdit_ReturnsToFilledForm(t *testing.T) {
	drafts := withDraft(testsupport.ValidSnapshot(), domain.StepOther)
	drafts.sub = ports.SubmissionState{Submitted: true, ArtifactURL: artifactURL}
	h := newHarness(t, drafts)

	require.NoError(t, h.c.Edit(context.Background()))
	v := h.c.View()
	assert.False(t, v.Submitted)
	assert.Empty(t, v.ArtifactURL)
	assert.Equal(t, "Иванов Иван Иванович", v.Snapshot.GeneralInfo.FullName)
	assert.False(t, h.drafts.sub.Submitted)
}

func TestClear_ResetsEverything(t *testing.T) {
	h := newHarness(t, withDraft(testsupport.ValidSnapshot(), domain.StepOrders))
	ctx := context.Background()
	_, err := h.c.Submit(ctx)
	require.NoError(t, err)

	require.NoError(t, h.c.Clear(ctx))
	v := h.c.View()
	assert.Equal(t, domain.StepGeneral, v.Step)
	assert.False(t, v.Submitted)
	assert.False(t, v.Attempted)
	assert.Empty(t, v.Errors)
	assert.Empty(t, cmp.Diff(domain.NewSnapshot(), v.Snapshot))
	require.NotNil(t, v.Banner)
	assert.Equal(t, wizard.MsgCleared, v.Banner.Message)
	assert.Nil(t, h.drafts.draft)
}

func TestPrefill(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	require.NoError(t, h.c.SetField(ctx, domain.F(domain.FieldRegion), "Тверская область"))

	profile := domain.DeputyProfile{
		LastName:                   "Сидоров",
		FirstName:                  "Пётр",
		Region:                     "Московская область",
		RepresentativeBodyLevel:    "Муниципальный",
		RepresentativeBodyName:     "Совет депутатов",
		RepresentativeBodyPosition: "Депутат",
		PartyPosition:              "Координатор",
		CommitteeName:              "Комитет по ЖКХ",
		VKPage:                     "https://vk.com/sidorov",
		TelegramChannel:            "https://t.me/sidorov",
	}
	h.c.Prefill(ctx, profile)

	g := h.c.View().Snapshot.GeneralInfo
	assert.Equal(t, "Сидоров Пётр", g.FullName)
	assert.Equal(t, "Тверская область", g.Region, "filled fields are kept")
	assert.Equal(t, "Муниципальный", g.RepresentativeLevel)
	assert.Equal(t, "Совет депутатов", g.AuthorityName)
	assert.Equal(t, "Координатор", g.LDPRPosition)
	assert.Equal(t, []string{"Комитет по ЖКХ"}, g.Committees)
	assert.Equal(t, []string{"https://vk.com/sidorov", "https://t.me/sidorov"}, g.Links)

	profile.LastName = "Другой"
	require.NoError(t, h.c.SetField(ctx, domain.F(domain.FieldFullName), ""))
	h.c.Prefill(ctx, profile)
	assert.Empty(t, h.c.View().Snapshot.GeneralInfo.FullName, "prefill runs once")
}
