package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/pipeline"
)

var (
	renderEnhancedFlags inputFlags
	renderRecsFlags     inputFlags
	renderOutDir        string
)

var renderEnhancedCmd = &cobra.Command{
	Use:   "render-enhanced",
	Short: "Generate the enhanced resume PDF",
	Long:  "Generate a PDF of the resume with the skills missing for the job description and profile level appended, and store it in the configured artifact store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRender(cmd, &renderEnhancedFlags, (*pipeline.Engine).EnhancedResume)
	},
}

var renderRecommendationsCmd = &cobra.Command{
	Use:   "render-recommendations",
	Short: "Generate the skill roadmap PDF",
	Long:  "Generate a PDF listing the detected skills and the skills to learn for the profile level, and store it in the configured artifact store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRender(cmd, &renderRecsFlags, (*pipeline.Engine).RecommendationPDF)
	},
}

func init() {
	renderEnhancedFlags.register(renderEnhancedCmd, true)
	renderRecsFlags.register(renderRecommendationsCmd, false)
	for _, cmd := range []*cobra.Command{renderEnhancedCmd, renderRecommendationsCmd} {
		cmd.Flags().StringVarP(&renderOutDir, "out-dir", "o", "", "Directory for generated PDFs (overrides OUTPUT_DIR, local storage only)")
		rootCmd.AddCommand(cmd)
	}
}

type renderFunc func(*pipeline.Engine, context.Context, pipeline.Request) (*pipeline.Artifact, error)

func runRender(cmd *cobra.Command, flags *inputFlags, render renderFunc) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if renderOutDir != "" {
		cfg.OutputDir = renderOutDir
	}
	req, err := flags.request(cmd, cfg)
	if err != nil {
		return err
	}

	engine, cleanup, err := buildEngine(cmd.Context(), cfg, engineParts{store: true})
	if err != nil {
		return err
	}
	defer cleanup()

	artifact, err := render(engine, cmd.Context(), req)
	if err != nil {
		return err
	}

	if flags.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), artifact)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Generated %s (%d bytes)\n", artifact.Name, artifact.Size)
	return nil
}
