package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/observability"
)

var reviewFlags inputFlags

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Get an LLM review of a resume against a job description",
	Long:  "Send the resume and job description to the configured LLM provider and print its qualitative review. Requires an API key (GROQ_API_KEY, GEMINI_API_KEY or OPENAI_API_KEY).",
	RunE:  runReview,
}

func init() {
	reviewFlags.register(reviewCmd, true)
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("API key is required (set GROQ_API_KEY, GEMINI_API_KEY or OPENAI_API_KEY)")
	}
	req, err := reviewFlags.request(cmd, cfg)
	if err != nil {
		return err
	}

	engine, cleanup, err := buildEngine(cmd.Context(), cfg, engineParts{reviewer: true})
	if err != nil {
		return err
	}
	defer cleanup()

	result, _, err := engine.Review(cmd.Context(), req)
	if err != nil {
		return err
	}

	if reviewFlags.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintReview(result)
	return nil
}
