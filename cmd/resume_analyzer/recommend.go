package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/observability"
)

var recommendFlags inputFlags

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Report the skills to learn for a profile level",
	Long:  "Detect the skills in a resume and report, per category, the recommended skills for the chosen profile level that the resume does not show.",
	RunE:  runRecommend,
}

func init() {
	recommendFlags.register(recommendCmd, false)
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	req, err := recommendFlags.request(cmd, cfg)
	if err != nil {
		return err
	}

	engine, cleanup, err := buildEngine(cmd.Context(), cfg, engineParts{})
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := engine.Report(cmd.Context(), req)
	if err != nil {
		return err
	}

	if recommendFlags.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintReport(report)
	return nil
}
