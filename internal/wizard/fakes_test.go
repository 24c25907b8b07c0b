package wizard_test

import (
	"context"
	"errors"
	"sync"

	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/ports"
)

var errStorage = errors.New("storage unavailable")

// memDrafts keeps drafts in memory. With fail set every call errors.
type memDrafts struct {
	mu        sync.Mutex
	draft     *ports.Draft
	sub       ports.SubmissionState
	saves     int
	fail      bool
	submitted []string
}

func (m *memDrafts) Save(_ context.Context, d ports.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStorage
	}
	m.saves++
	cp := d
	cp.Snapshot = d.Snapshot.Clone()
	m.draft = &cp
	return nil
}

func (m *memDrafts) Load(context.Context) (ports.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return ports.Draft{}, errStorage
	}
	if m.draft == nil {
		return ports.Draft{Snapshot: domain.NewSnapshot()}, nil
	}
	cp := *m.draft
	cp.Snapshot = m.draft.Snapshot.Clone()
	return cp, nil
}

func (m *memDrafts) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStorage
	}
	m.draft = nil
	m.sub = ports.SubmissionState{}
	return nil
}

func (m *memDrafts) MarkSubmitted(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStorage
	}
	m.submitted = append(m.submitted, url)
	m.sub = ports.SubmissionState{Submitted: true, ArtifactURL: url}
	return nil
}

func (m *memDrafts) Submission(context.Context) (ports.SubmissionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return ports.SubmissionState{}, errStorage
	}
	return m.sub, nil
}

func (m *memDrafts) ClearSubmission(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStorage
	}
	m.sub = ports.SubmissionState{}
	return nil
}

func (m *memDrafts) lastDraft() ports.Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.draft
}

// stubSubmitter answers with result/err. If gate is set, Submit blocks until
// it is closed and signals entered first.
type stubSubmitter struct {
	mu      sync.Mutex
	calls   int
	userIDs []int64
	result  domain.SubmissionResult
	err     error
	entered chan struct{}
	gate    chan struct{}
}

func (s *stubSubmitter) Submit(ctx context.Context, userID int64, _ *domain.Snapshot) (domain.SubmissionResult, error) {
	s.mu.Lock()
	s.calls++
	s.userIDs = append(s.userIDs, userID)
	s.mu.Unlock()
	if s.gate != nil {
		close(s.entered)
		<-s.gate
	}
	return s.result, s.err
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type download struct{ url, filename string }

type stubDownloader struct {
	mu    sync.Mutex
	calls []download
	err   error
}

func (d *stubDownloader) Download(_ context.Context, url, filename string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, download{url, filename})
	return d.err
}
