// Package reportapi is the HTTP client of the report-generation endpoint.
package reportapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/ports"
)

const reportsPath = "/api/reports/"

// TokenSource yields the bearer token of the current host session. An empty
// token sends the request without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// StatusError is returned for non-2xx answers. Message is taken from the
// response body when the server sent one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("report api: %d %s", e.StatusCode, e.Message)
}

// Client talks to the report endpoint and downloads generated artifacts.
type Client struct {
	baseURL     string
	http        *http.Client
	tokens      TokenSource
	downloadDir string
}

var (
	_ ports.ReportSubmitter    = (*Client)(nil)
	_ ports.ArtifactDownloader = (*Client)(nil)
)

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.http = c } }

func WithTokenSource(ts TokenSource) Option { return func(cl *Client) { cl.tokens = ts } }

// WithDownloadDir sets where Download stores artifacts. Defaults to the
// working directory.
func WithDownloadDir(dir string) Option { return func(cl *Client) { cl.downloadDir = dir } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: 60 * time.Second},
		tokens:      StaticToken(""),
		downloadDir: ".",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithToken returns a copy of c that authenticates with ts.
func (c *Client) WithToken(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

type submitRequest struct {
	UserID int64            `json:"user_id"`
	Data   *domain.Snapshot `json:"data"`
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Submit sends the snapshot for report generation. A response whose status
// is not "Success" is a failure even with a 2xx code.
func (c *Client) Submit(ctx context.Context, userID int64, s *domain.Snapshot) (domain.SubmissionResult, error) {
	failed := domain.SubmissionResult{Status: domain.SubmissionFailure}

	body, err := json.Marshal(submitRequest{UserID: userID, Data: s})
	if err != nil {
		return failed, fmt.Errorf("encode report: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+reportsPath, bytes.NewReader(body))
	if err != nil {
		return failed, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return failed, fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return failed, fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, err)
	}
	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return failed, fmt.Errorf("%w: decode response: %w", domain.ErrSubmissionFailed, err)
	}
	if domain.SubmissionStatus(out.Status) != domain.SubmissionSuccess {
		return failed, fmt.Errorf("%w: %s", domain.ErrSubmissionFailed, out.Message)
	}
	return domain.SubmissionResult{Status: domain.SubmissionSuccess, ArtifactURL: out.Message}, nil
}

// Download stores the artifact at url as filename inside the download
// directory. The file appears atomically.
func (c *Client) Download(ctx context.Context, url, filename string) error {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("download: invalid filename %q", filename)
	}
	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.downloadDir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := c.Fetch(ctx, url, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(c.downloadDir, name))
}

// Fetch streams the artifact at url into w and returns its content type.
func (c *Client) Fetch(ctx context.Context, url string, w io.Writer) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch artifact: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("fetch artifact: %w", err)
	}
	return resp.Header.Get("Content-Type"), nil
}

// Ping checks that the report endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+reportsPath+"ping", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg := http.StatusText(resp.StatusCode)
	var out apiResponse
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, &out); err == nil {
		switch {
		case out.Detail != "":
			msg = out.Detail
		case out.Message != "":
			msg = out.Message
		}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
