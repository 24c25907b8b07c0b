package report_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/ldpr-reports/internal/adapters/pdf"
	"github.com/csg33k/ldpr-reports/internal/adapters/sqlite"
	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/report"
	"github.com/csg33k/ldpr-reports/internal/testsupport"
)

type notification struct {
	level, message string
	extra          map[string]any
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, level, message string, extra map[string]any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{level, message, extra})
	return n.err
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, *domain.Snapshot, io.Writer) error {
	return errors.New("font missing")
}

type fixture struct {
	svc      *report.Service
	store    *sqlite.Store
	notifier *recordingNotifier
	media    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{store: store, notifier: &recordingNotifier{}, media: filepath.Join(t.TempDir(), "media")}
	f.svc = report.NewService(store, pdf.New(""), f.notifier, f.media, zerolog.Nop())
	return f
}

func TestCreate_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.svc.Create(ctx, "https://reports.example.org/", 42, testsupport.ValidSnapshot())
	require.NoError(t, err)

	name := got.Report.PDFName
	assert.Regexp(t, `^report_[0-9a-f-]{36}\.pdf$`, name)
	assert.Equal(t, "https://reports.example.org/api/reports/media/"+name, got.URL)

	b, err := os.ReadFile(filepath.Join(f.media, name))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "%PDF-"))

	list, err := f.svc.List(ctx, 42)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, name, list[0].PDFName)

	require.Len(t, f.notifier.sent, 1)
	n := f.notifier.sent[0]
	assert.Equal(t, "INFO", n.level)
	assert.Equal(t, "Новый отчёт у Иванов Иван Иванович", n.message)
	assert.Equal(t, got.URL, n.extra["link"])

	p, err := f.svc.MediaPath(name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.media, name), p)
}

func TestCreate_LogsComponentOnce(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	svc := report.NewService(f.store, pdf.New(""), f.notifier, f.media, zerolog.New(&buf))

	_, err := svc.Create(context.Background(), "https://reports.example.org/", 42, testsupport.ValidSnapshot())
	require.NoError(t, err)

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)
	assert.Equal(t, 1, strings.Count(line, `"component":`), line)
	assert.Contains(t, line, `"component":"report"`)
}

func TestCreate_RejectsIncompleteReport(t *testing.T) {
	f := newFixture(t)
	s := testsupport.ValidSnapshot()
	s.Legislation[0].Status = domain.StatusRejected

	_, err := f.svc.Create(context.Background(), "http://h", 1, s)
	require.ErrorIs(t, err, domain.ErrIncomplete)

	var ve *report.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Problems, 1)
	assert.Equal(t, "legislation.0.rejection_reason", ve.Problems[0].Field.Path())

	assert.Empty(t, f.notifier.sent)
	_, statErr := os.Stat(f.media)
	assert.True(t, os.IsNotExist(statErr), "nothing rendered for invalid input")
}

func TestCreate_SanitizesMarkup(t *testing.T) {
	f := newFixture(t)
	s := testsupport.ValidSnapshot()
	s.OtherInfo = `<script>alert(1)</script>Отчёт & "итоги"`
	s.Legislation[0].Title = `<b>О благоустройстве</b>`

	got, err := f.svc.Create(context.Background(), "http://h", 1, s)
	require.NoError(t, err)

	stored, err := f.store.GetReport(context.Background(), got.Report.ID)
	require.NoError(t, err)
	assert.Equal(t, `Отчёт & "итоги"`, stored.Data.OtherInfo)
	assert.Equal(t, "О благоустройстве", stored.Data.Legislation[0].Title)
	assert.Contains(t, s.OtherInfo, "<script>", "caller's snapshot is not modified")
}

func TestCreate_MarkupOnlyRequiredFieldFails(t *testing.T) {
	f := newFixture(t)
	s := testsupport.ValidSnapshot()
	s.GeneralInfo.FullName = "<img src=x>"

	_, err := f.svc.Create(context.Background(), "http://h", 1, s)
	var ve *report.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "general_info.full_name", ve.Problems[0].Field.Path())
}

func TestCreate_RenderFailureNotifies(t *testing.T) {
	f := newFixture(t)
	svc := report.NewService(f.store, failingGenerator{}, f.notifier, f.media, zerolog.Nop())

	_, err := svc.Create(context.Background(), "http://h", 5, testsupport.ValidSnapshot())
	require.ErrorContains(t, err, "font missing")

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "ERROR", f.notifier.sent[0].level)
	assert.Equal(t, "Ошибка при создании отчёта у Иванов Иван Иванович", f.notifier.sent[0].message)

	entries, _ := os.ReadDir(f.media)
	assert.Empty(t, entries, "partial file removed")
	list, err := svc.List(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_NotificationFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("telegram down")

	_, err := f.svc.Create(context.Background(), "http://h", 1, testsupport.ValidSnapshot())
	assert.NoError(t, err)
}

func TestMediaPath_RejectsTraversal(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"../reports.db", "report_x.txt", "other.pdf", "report_missing.pdf"} {
		_, err := f.svc.MediaPath(name)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, name)
	}
}
