package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/observability"
)

var analyzeFlags inputFlags

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare resume skills with a job description",
	Long:  "Detect the skills in a resume and a job description, report the matched and missing skills and the match percentage, and compare the resume with the recommended skills for a profile level.",
	RunE:  runAnalyze,
}

func init() {
	analyzeFlags.register(analyzeCmd, true)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	req, err := analyzeFlags.request(cmd, cfg)
	if err != nil {
		return err
	}

	engine, cleanup, err := buildEngine(cmd.Context(), cfg, engineParts{})
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := engine.Analyze(cmd.Context(), req)
	if err != nil {
		return err
	}

	if analyzeFlags.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	p := observability.NewPrinter(cmd.OutOrStdout())
	p.PrintMatch(result.Match)
	p.PrintSkillAnalysis(result.Skills)
	return nil
}
