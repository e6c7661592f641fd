package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/types"
)

func TestAnalyzeCommand_JSON(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)

	out, _, err := executeCommand(t, "analyze", "--resume", resume, "--job", "React, Python and Docker", "--json")
	require.NoError(t, err)

	var result pipeline.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, []string{"react"}, result.Match.MatchedSkills)
	assert.Equal(t, []string{"python", "docker"}, result.Match.MissingSkills)
	assert.Equal(t, 33, result.Match.MatchPercentage)
	assert.Equal(t, types.LevelMid, result.Skills.ProfileLevel)
}

func TestAnalyzeCommand_JobFileAndSummary(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)
	job := writeFile(t, "job.txt", "Looking for React and MongoDB experience")

	out, _, err := executeCommand(t, "analyze", "-r", resume, "--job-file", job, "--level", "senior")
	require.NoError(t, err)
	assert.Contains(t, out, "100%")
	assert.Contains(t, strings.ToLower(out), "senior")
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)

	_, _, err := executeCommand(t, "analyze", "--resume", resume)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Job description is required")

	_, _, err = executeCommand(t, "analyze", "--resume", filepath.Join(t.TempDir(), "missing.txt"), "--job", "React")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read resume file")

	image := writeFile(t, "resume.png", "not text")
	_, _, err = executeCommand(t, "analyze", "--resume", image, "--job", "React")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only PDF, DOC, DOCX, and TXT files are allowed")
}

func TestRecommendCommand_JSON(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)

	out, _, err := executeCommand(t, "recommend", "--resume", resume, "--level", "junior", "--json")
	require.NoError(t, err)

	var report types.SkillsReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, types.LevelJunior, report.ProfileLevel)
	frontend, ok := report.MissingSkills.Get("frontend")
	require.True(t, ok)
	assert.Equal(t, []string{"html", "css", "javascript"}, frontend)
}

func TestRenderCommands_WritePDFs(t *testing.T) {
	resume := writeFile(t, "resume.txt", sampleResume)
	outDir := t.TempDir()

	out, _, err := executeCommand(t, "render-enhanced", "--resume", resume, "--job", "React and Docker", "--out-dir", outDir, "--json")
	require.NoError(t, err)
	var artifact pipeline.Artifact
	require.NoError(t, json.Unmarshal([]byte(out), &artifact), out)
	assert.True(t, strings.HasPrefix(artifact.Name, "enhanced_resume_"))

	data, err := os.ReadFile(filepath.Join(outDir, artifact.Name))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))

	out, _, err = executeCommand(t, "render-recommendations", "--resume", resume, "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated skill_recommendations_")
}

func TestReviewCommand_RequiresAPIKey(t *testing.T) {
	for _, key := range []string{"GROQ_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "LLM_API_KEY"} {
		t.Setenv(key, "")
	}
	resume := writeFile(t, "resume.txt", sampleResume)

	_, _, err := executeCommand(t, "review", "--resume", resume, "--job", "React")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestTaxonomyCommand(t *testing.T) {
	out, _, err := executeCommand(t, "taxonomy", "--json", "--level", "junior")
	require.NoError(t, err)

	var view taxonomyView
	require.NoError(t, json.Unmarshal([]byte(out), &view), out)
	assert.Equal(t, "junior", view.Level)
	assert.NotEmpty(t, view.Categories)
	_, ok := view.Recommended.Get("frontend")
	assert.True(t, ok)

	out, _, err = executeCommand(t, "taxonomy")
	require.NoError(t, err)
	assert.Contains(t, out, "SKILL TAXONOMY")
	assert.Contains(t, out, "RECOMMENDED FOR MID")
}

func TestLoadConfig_FileAndFlags(t *testing.T) {
	path := writeFile(t, "config.json", `{"log_level": "warn", "verbose": true}`)

	_, _, err := executeCommand(t, "taxonomy", "--config", path, "--log-level", "debug")
	require.NoError(t, err)

	_, _, err = executeCommand(t, "taxonomy", "--config", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestRateLimitConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimitDisabled = true
	cfg.RateLimitWhitelist = []string{"10.0.0.1"}

	rl := rateLimitConfig(&cfg)
	assert.False(t, rl.Enabled)
	assert.Equal(t, 300, rl.DefaultLimit)
	assert.True(t, rl.Whitelist["10.0.0.1"])
	assert.NotEmpty(t, rl.EndpointConfigs)
}
