// Command reportctl checks, renders and submits deputy reports from JSON
// files without the web wizard.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/csg33k/ldpr-reports/internal/config"
	"github.com/csg33k/ldpr-reports/internal/logging"
)

var (
	logLevel string
	apiURL   string
	fontPath string
	timeout  time.Duration

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "reportctl",
	Short:         "Deputy report tooling",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("api") {
			apiURL = cfg.ReportAPIURL
		}
		if !cmd.Flags().Changed("font") {
			fontPath = cfg.FontPath
		}
		if !cmd.Flags().Changed("log-level") {
			logLevel = cfg.LogLevel
		}
		logger = logging.New(logLevel, "console", cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Report API base URL (or REPORT_API_URL)")
	rootCmd.PersistentFlags().StringVar(&fontPath, "font", "", "TrueType font for PDF output (or REPORT_FONT_PATH)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	renderCmd.Flags().StringP("out", "o", "report.pdf", "Output file")
	submitCmd.Flags().Int64("user", 0, "Deputy user id (required)")
	submitCmd.Flags().String("token", "", "Bearer token (or REPORT_API_TOKEN)")
	submitCmd.Flags().String("dir", ".", "Directory the PDF is saved to")
	submitCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(pingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
