// Package report generates deputy reports on the server side: it cleans and
// validates the submitted snapshot, renders the PDF into the media
// directory, stores a record and notifies operators.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/logging"
	"github.com/csg33k/ldpr-reports/internal/ports"
	"github.com/csg33k/ldpr-reports/internal/validation"
)

// MediaPrefix is the URL path under which generated PDFs are served.
const MediaPrefix = "/api/reports/media/"

// ValidationError lists the fields that made a submission incomplete.
type ValidationError struct {
	Problems []validation.Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field.Path()+": "+p.Message)
	}
	return "invalid report: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrIncomplete }

type Service struct {
	repo     ports.ReportRepository
	gen      ports.ArtifactGenerator
	notifier ports.Notifier
	mediaDir string
	log      zerolog.Logger
	newName  func() string
}

func NewService(repo ports.ReportRepository, gen ports.ArtifactGenerator, n ports.Notifier, mediaDir string, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		gen:      gen,
		notifier: n,
		mediaDir: mediaDir,
		log:      logging.Component(log, "report"),
		newName:  func() string { return "report_" + uuid.NewString() + ".pdf" },
	}
}

// Created is the outcome of a successful Create.
type Created struct {
	Report *domain.Report
	URL    string
}

// Create generates and stores the report of userID. baseURL is the public
// origin the artifact link is built on.
func (s *Service) Create(ctx context.Context, baseURL string, userID int64, snap *domain.Snapshot) (Created, error) {
	data := snap.Clone()
	data.Normalize()
	Sanitize(data)

	if problems := validation.Check(data); len(problems) > 0 {
		return Created{}, &ValidationError{Problems: problems}
	}

	name := s.newName()
	if err := s.render(ctx, data, name); err != nil {
		s.notifyFailure(ctx, userID, data, err)
		return Created{}, err
	}

	r := &domain.Report{UserID: userID, Data: *data, PDFName: name}
	if err := s.repo.CreateReport(ctx, r); err != nil {
		os.Remove(filepath.Join(s.mediaDir, name))
		err = fmt.Errorf("store report: %w", err)
		s.notifyFailure(ctx, userID, data, err)
		return Created{}, err
	}

	link := MediaURL(baseURL, name)
	s.log.Info().Int64("user_id", userID).Int64("report_id", r.ID).Str("file", name).Msg("report created")
	s.notify(ctx, "INFO", "Новый отчёт у "+data.GeneralInfo.FullName, map[string]any{
		"user_id":   userID,
		"report_id": r.ID,
		"link":      link,
	})
	return Created{Report: r, URL: link}, nil
}

func (s *Service) render(ctx context.Context, data *domain.Snapshot, name string) error {
	if err := os.MkdirAll(s.mediaDir, 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.mediaDir, ".render-*")
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.gen.Generate(ctx, data, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("render report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.mediaDir, name))
}

func (s *Service) notifyFailure(ctx context.Context, userID int64, data *domain.Snapshot, cause error) {
	s.log.Error().Err(cause).Int64("user_id", userID).Msg("report generation failed")
	s.notify(ctx, "ERROR", "Ошибка при создании отчёта у "+data.GeneralInfo.FullName, map[string]any{
		"user_id": userID,
		"error":   cause.Error(),
	})
}

func (s *Service) notify(ctx context.Context, level, msg string, extra map[string]any) {
	if err := s.notifier.Notify(ctx, level, msg, extra); err != nil {
		s.log.Warn().Err(err).Str("level", level).Msg("notification failed")
	}
}

// List returns the stored reports of userID, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]domain.Report, error) {
	return s.repo.ListReports(ctx, userID)
}

// MediaPath resolves a generated file name inside the media directory. Names
// with path separators or other than report PDFs are rejected.
func (s *Service) MediaPath(name string) (string, error) {
	if name != filepath.Base(name) || !strings.HasPrefix(name, "report_") || !strings.HasSuffix(name, ".pdf") {
		return "", domain.ErrReportNotFound
	}
	p := filepath.Join(s.mediaDir, name)
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrReportNotFound
		}
		return "", err
	}
	return p, nil
}

// MediaURL builds the public link of a generated file.
func MediaURL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + MediaPrefix + name
}
