package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/testsupport"
)

func setup(t *testing.T) {
	t.Helper()
	logger = zerolog.Nop()
	timeout = time.Minute
	fontPath = ""
	t.Cleanup(func() { apiURL = "" })
}

func writeJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(p, b, 0o644))
	return p
}

func TestValidate_OK(t *testing.T) {
	setup(t)
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	err := runValidate(cmd, []string{writeJSON(t, testsupport.ValidSnapshot())})
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out.String())
}

func TestValidate_ReportsProblems(t *testing.T) {
	setup(t)
	s := testsupport.ValidSnapshot()
	s.GeneralInfo.FullName = ""
	s.GeneralInfo.Links = []string{"vk.com/deputy"}
	s.LDPROrders[0].Action = ""

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	// The API request shape is accepted too.
	err := runValidate(cmd, []string{writeJSON(t, map[string]any{"user_id": 1, "data": s})})
	require.ErrorIs(t, err, domain.ErrIncomplete)
	assert.Contains(t, out.String(), "general_info.full_name: Это поле обязательно")
	assert.Contains(t, out.String(), "ldpr_orders item 1: Проделанная работа обязательна")
	assert.Contains(t, out.String(), "warning: link 1 of activity_links")
}

func TestValidate_BadFile(t *testing.T) {
	setup(t)
	p := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(p, []byte("{"), 0o644))
	assert.Error(t, runValidate(&cobra.Command{}, []string{p}))
	assert.Error(t, runValidate(&cobra.Command{}, []string{filepath.Join(t.TempDir(), "missing.json")}))
}

func TestRender(t *testing.T) {
	setup(t)
	outPath := filepath.Join(t.TempDir(), "out.pdf")
	cmd := &cobra.Command{}
	cmd.Flags().String("out", outPath, "")

	require.NoError(t, runRender(cmd, []string{writeJSON(t, testsupport.ValidSnapshot())}))
	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
}

func TestSubmit(t *testing.T) {
	setup(t)
	var gotAuth string
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/reports/":
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"status":  "Success",
				"message": srv.URL + "/api/reports/media/report_x.pdf",
			})
		case r.URL.Path == "/api/reports/media/report_x.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.4 test"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	apiURL = srv.URL

	dir := t.TempDir()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.Flags().Int64("user", 12, "")
	cmd.Flags().String("token", "secret", "")
	cmd.Flags().String("dir", dir, "")

	require.NoError(t, runSubmit(cmd, []string{writeJSON(t, testsupport.ValidSnapshot())}))
	assert.Equal(t, "Bearer secret", gotAuth)

	saved := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(filepath.Base(saved), "Отчет_ЛДПР_Иванов Иван Иванович_"), saved)
	b, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(b))
}

func TestSubmit_RejectsIncomplete(t *testing.T) {
	setup(t)
	apiURL = "http://127.0.0.1:1"
	cmd := &cobra.Command{}
	cmd.Flags().Int64("user", 12, "")
	cmd.Flags().String("token", "", "")
	cmd.Flags().String("dir", t.TempDir(), "")

	err := runSubmit(cmd, []string{writeJSON(t, domain.NewSnapshot())})
	assert.ErrorIs(t, err, domain.ErrIncomplete)
}

func TestPing(t *testing.T) {
	setup(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reports/ping" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"message":"Pong"}`))
	}))
	defer srv.Close()
	apiURL = srv.URL

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runPing(cmd, nil))
	assert.Contains(t, out.String(), "pong")

	apiURL = srv.URL + "/nowhere"
	assert.Error(t, runPing(cmd, nil))
}
