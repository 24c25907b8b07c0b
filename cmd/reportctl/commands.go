package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/csg33k/ldpr-reports/internal/adapters/pdf"
	"github.com/csg33k/ldpr-reports/internal/adapters/reportapi"
	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/report"
	"github.com/csg33k/ldpr-reports/internal/validation"
	"github.com/csg33k/ldpr-reports/internal/wizard"
)

var validateCmd = &cobra.Command{
	Use:   "validate <report.json>",
	Short: "Check a report file against the form rules",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var renderCmd = &cobra.Command{
	Use:   "render <report.json>",
	Short: "Render a report file to PDF locally",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var submitCmd = &cobra.Command{
	Use:   "submit <report.json>",
	Short: "Submit a report to the report API and download the PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the report API is reachable",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

// readSnapshot decodes a report file. Both a bare snapshot and the API
// request shape {"user_id":..,"data":{..}} are accepted.
func readSnapshot(path string) (*domain.Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		Data *domain.Snapshot `json:"data"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	s := wrapped.Data
	if s == nil {
		s = domain.NewSnapshot()
		if err := json.Unmarshal(b, s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	s.Normalize()
	return s, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := readSnapshot(args[0])
	if err != nil {
		return err
	}
	problems := validation.Check(s)
	out := cmd.OutOrStdout()
	for _, p := range problems {
		fmt.Fprintf(out, "%s: %s\n", p.Field.Path(), p.Message)
	}
	for _, p := range itemProblems(s) {
		fmt.Fprintln(out, p)
	}
	for _, o := range linkOwners(s) {
		for i, msg := range validation.LinkErrors(s.Links(o)) {
			if msg != "" {
				fmt.Fprintf(out, "warning: link %d of %s: %s\n", i+1, o.Step(), msg)
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %d fields", domain.ErrIncomplete, len(problems))
	}
	fmt.Fprintln(out, "ok")
	return nil
}

// itemProblems summarizes the first problem of every list item, one line each.
func itemProblems(s *domain.Snapshot) []string {
	var out []string
	add := func(section string, i int, msg string) {
		if msg != "" {
			out = append(out, fmt.Sprintf("%s item %d: %s", section, i+1, msg))
		}
	}
	for i, item := range s.Legislation {
		add("legislation", i, validation.ValidateLegislationItem(item))
	}
	for i, ex := range s.CitizenRequests.Examples {
		add("examples", i, validation.ValidateTextItem(ex.Text))
	}
	for i, p := range s.SVOSupport.Projects {
		add("svo_projects", i, validation.ValidateTextItem(p.Text))
	}
	for i, item := range s.ProjectActivity {
		add("project_activity", i, validation.ValidateProjectItem(item))
	}
	for i, item := range s.LDPROrders {
		add("ldpr_orders", i, validation.ValidateOrderItem(item))
	}
	return out
}

func linkOwners(s *domain.Snapshot) []domain.LinkOwner {
	out := []domain.LinkOwner{{Kind: domain.LinksProfile}}
	for i := range s.Legislation {
		out = append(out, domain.LinkOwner{Kind: domain.LinksLegislation, Index: i})
	}
	for i := range s.CitizenRequests.Examples {
		out = append(out, domain.LinkOwner{Kind: domain.LinksExample, Index: i})
	}
	for i := range s.SVOSupport.Projects {
		out = append(out, domain.LinkOwner{Kind: domain.LinksSVOProject, Index: i})
	}
	return out
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := readSnapshot(args[0])
	if err != nil {
		return err
	}
	report.Sanitize(s)
	outPath, _ := cmd.Flags().GetString("out")
	if fontPath == "" {
		logger.Warn().Msg("no --font or REPORT_FONT_PATH: Cyrillic text will not render")
	}

	ctx, cancel := context.WithTimeout(cmdContext(cmd), timeout)
	defer cancel()

	f, err := os.CreateTemp(filepath.Dir(outPath), ".render-*.pdf")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := pdf.New(fontPath).Generate(ctx, s, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), outPath); err != nil {
		return err
	}
	logger.Info().Str("file", outPath).Msg("report rendered")
	return nil
}

func runSubmit(cmd *cobra.Command, args []string) error {
	s, err := readSnapshot(args[0])
	if err != nil {
		return err
	}
	if problems := validation.Check(s); len(problems) > 0 {
		return fmt.Errorf("%w: run validate for details", domain.ErrIncomplete)
	}
	userID, _ := cmd.Flags().GetInt64("user")
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("REPORT_API_TOKEN")
	}
	dir, _ := cmd.Flags().GetString("dir")
	if apiURL == "" {
		return errors.New("no report API URL: pass --api or set REPORT_API_URL")
	}

	ctx, cancel := context.WithTimeout(cmdContext(cmd), timeout)
	defer cancel()

	client := reportapi.New(apiURL,
		reportapi.WithTokenSource(reportapi.StaticToken(token)),
		reportapi.WithDownloadDir(dir),
	)
	res, err := client.Submit(ctx, userID, s)
	if err != nil {
		return err
	}
	logger.Info().Int64("user_id", userID).Str("url", res.ArtifactURL).Msg("report submitted")

	name := wizard.Filename(s.GeneralInfo.FullName, time.Now())
	if err := client.Download(ctx, res.ArtifactURL, name); err != nil {
		return fmt.Errorf("report submitted but download failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, name))
	return nil
}

func runPing(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdContext(cmd), timeout)
	defer cancel()
	if err := reportapi.New(apiURL).Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "pong from", apiURL)
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
