package ports

import (
	"context"
	"io"

	"github.com/csg33k/ldpr-reports/internal/domain"
)

// Draft is the persisted wizard state of one user.
type Draft struct {
	Snapshot   *domain.Snapshot
	Step       domain.Step
	Interacted domain.StepFlags
}

// SubmissionState marks a report that was already generated, so a reload
// shows the success view with a re-download option.
type SubmissionState struct {
	Submitted   bool
	ArtifactURL string
}

// DraftRepository persists the wizard state of a single user. Load never
// fails on missing keys; it falls back to the empty template, step 0, all
// flags false and not submitted.
type DraftRepository interface {
	Save(ctx context.Context, d Draft) error
	Load(ctx context.Context) (Draft, error)
	Clear(ctx context.Context) error

	MarkSubmitted(ctx context.Context, artifactURL string) error
	Submission(ctx context.Context) (SubmissionState, error)
	ClearSubmission(ctx context.Context) error
}

// ReportRepository stores generated reports on the backend side.
type ReportRepository interface {
	CreateReport(ctx context.Context, r *domain.Report) error
	GetReport(ctx context.Context, id int64) (*domain.Report, error)
	ListReports(ctx context.Context, userID int64) ([]domain.Report, error)
}

// ReportSubmitter sends a finished snapshot to the report endpoint.
type ReportSubmitter interface {
	Submit(ctx context.Context, userID int64, s *domain.Snapshot) (domain.SubmissionResult, error)
}

// ArtifactDownloader delivers a generated artifact to the user under filename.
type ArtifactDownloader interface {
	Download(ctx context.Context, url, filename string) error
}

// ArtifactGenerator renders a report document.
type ArtifactGenerator interface {
	Generate(ctx context.Context, s *domain.Snapshot, w io.Writer) error
}

// Notifier posts operational log lines (new report, failures) to operators.
type Notifier interface {
	Notify(ctx context.Context, level, message string, extra map[string]any) error
}
