package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/csg33k/ldpr-reports/internal/adapters/reportapi"
	"github.com/csg33k/ldpr-reports/internal/ports"
	"github.com/csg33k/ldpr-reports/internal/wizard"
)

// UserHeader carries the id of the deputy the host shell authenticated.
const UserHeader = "X-User-ID"

var errNoUser = errors.New("missing or invalid " + UserHeader + " header")

// session is the wizard of one user plus what the browser needs between
// requests.
type session struct {
	userID  int64
	ctrl    *wizard.Controller
	token   *tokenBox
	pending *pendingDownload
	seen    time.Time // guarded by sessions.mu
}

// tokenBox holds the latest bearer token the host sent for the user.
type tokenBox struct {
	mu    sync.Mutex
	token string
}

func (t *tokenBox) set(v string) {
	t.mu.Lock()
	t.token = v
	t.mu.Unlock()
}

func (t *tokenBox) Token(context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token, nil
}

// pendingDownload records the artifact the controller asked to download.
// The browser picks it up once with GET /wizard/download/{ticket}; the
// random ticket stands in for the user header a plain GET cannot carry.
type pendingDownload struct {
	mu       sync.Mutex
	ticket   string
	url      string
	filename string
}

var _ ports.ArtifactDownloader = (*pendingDownload)(nil)

func (p *pendingDownload) Download(_ context.Context, url, filename string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ticket, p.url, p.filename = uuid.NewString(), url, filename
	return nil
}

// take returns the download for ticket and forgets it.
func (p *pendingDownload) take(ticket string) (url, filename string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ticket == "" || ticket != p.ticket {
		return "", "", false
	}
	url, filename = p.url, p.filename
	p.ticket, p.url, p.filename = "", "", ""
	return url, filename, true
}

// current returns the ticket of the waiting download, or "".
func (p *pendingDownload) current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticket
}

// DefaultSessionTTL is how long an unused session stays in memory.
const DefaultSessionTTL = 30 * time.Minute

// sessions keeps one controller per active user. The draft itself lives in
// storage, so dropping an idle session only loses transient touched/error
// state.
type sessions struct {
	mu        sync.Mutex
	m         map[int64]*session
	drafts    func(userID int64) ports.DraftRepository
	api       *reportapi.Client
	log       zerolog.Logger
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func newSessions(drafts func(int64) ports.DraftRepository, api *reportapi.Client, ttl time.Duration, log zerolog.Logger) *sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessions{m: map[int64]*session{}, drafts: drafts, api: api, log: log, ttl: ttl, now: time.Now}
}

// get returns the session of the requesting user, creating it on first use.
// The bearer token of the request replaces the stored one.
func (s *sessions) get(r *http.Request) (*session, error) {
	userID, err := strconv.ParseInt(r.Header.Get(UserHeader), 10, 64)
	if err != nil || userID <= 0 {
		return nil, errNoUser
	}

	s.mu.Lock()
	s.sweep()
	sess, ok := s.m[userID]
	if ok {
		sess.seen = s.now()
	}
	s.mu.Unlock()

	if !ok {
		// Loading the draft hits storage; keep it out of the global lock.
		fresh := s.open(r.Context(), userID)
		s.mu.Lock()
		if sess, ok = s.m[userID]; !ok {
			sess = fresh
			s.m[userID] = sess
		}
		sess.seen = s.now()
		s.mu.Unlock()
	}

	if tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		sess.token.set(tok)
	}
	return sess, nil
}

func (s *sessions) open(ctx context.Context, userID int64) *session {
	sess := &session{userID: userID, token: &tokenBox{}, pending: &pendingDownload{}}
	sess.ctrl = wizard.New(ctx, wizard.Options{
		UserID:     userID,
		Drafts:     s.drafts(userID),
		Submitter:  s.api.WithToken(sess.token),
		Downloader: sess.pending,
		Logger:     s.log,
	})
	return sess
}

// sweep drops sessions unused for longer than ttl. Sessions with work in
// flight or a download the browser has not collected are kept. Callers hold
// s.mu.
func (s *sessions) sweep() {
	now := s.now()
	if now.Sub(s.lastSweep) < s.ttl/4 {
		return
	}
	s.lastSweep = now
	for id, sess := range s.m {
		if now.Sub(sess.seen) < s.ttl || sess.ctrl.Busy() || sess.pending.current() != "" {
			continue
		}
		delete(s.m, id)
		s.log.Debug().Int64("user_id", id).Msg("idle wizard session dropped")
	}
}

// byTicket finds the session with a waiting download for ticket.
func (s *sessions) byTicket(ticket string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.m {
		if sess.pending.current() == ticket {
			return sess, true
		}
	}
	return nil, false
}
