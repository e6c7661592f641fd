package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/types"
)

var (
	taxonomyLevel string
	taxonomyJSON  bool
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Show the skill taxonomy",
	Long:  "Print the skill categories and keywords detected in resumes, and the recommended skills for a profile level.",
	RunE:  runTaxonomy,
}

func init() {
	taxonomyCmd.Flags().StringVarP(&taxonomyLevel, "level", "l", "", "Profile level whose recommendations to show (default mid)")
	taxonomyCmd.Flags().BoolVar(&taxonomyJSON, "json", false, "Print JSON instead of a summary")
	rootCmd.AddCommand(taxonomyCmd)
}

// taxonomyView is the JSON form of the taxonomy command output.
type taxonomyView struct {
	Version     string               `json:"version"`
	Categories  []skills.Category    `json:"categories"`
	Level       string               `json:"level"`
	Recommended types.CategorySkills `json:"recommended"`
}

func runTaxonomy(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	t := skills.DefaultTaxonomy()
	if cfg.TaxonomyFile != "" {
		if t, err = skills.LoadTaxonomyFile(cfg.TaxonomyFile); err != nil {
			return err
		}
	}

	if taxonomyJSON {
		table, resolved := t.Recommended(taxonomyLevel)
		return writeJSON(cmd.OutOrStdout(), taxonomyView{
			Version:     t.Version(),
			Categories:  t.Categories(),
			Level:       string(resolved),
			Recommended: table,
		})
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintTaxonomy(t, taxonomyLevel)
	return nil
}
