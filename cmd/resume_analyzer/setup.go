package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/fetch"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/review"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/jonathan/resume-analyzer/internal/storage"
)

// loadConfig resolves the effective configuration (defaults, config file,
// environment, then global flags) and installs the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, os.LookupEnv)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if _, err := observability.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return cfg, nil
}

// engineParts selects the optional collaborators built for a command.
type engineParts struct {
	store    bool
	reviewer bool
}

// buildEngine wires the analysis engine from cfg. The returned cleanup
// releases the LLM client, if one was created.
func buildEngine(ctx context.Context, cfg *config.Config, parts engineParts) (*pipeline.Engine, func(), error) {
	cleanup := func() {}
	opts := []pipeline.Option{pipeline.WithFetchOptions(fetch.DefaultOptions())}

	if cfg.TaxonomyFile != "" {
		t, err := skills.LoadTaxonomyFile(cfg.TaxonomyFile)
		if err != nil {
			return nil, cleanup, err
		}
		opts = append(opts, pipeline.WithTaxonomy(t))
	}

	if parts.store {
		store, err := newStore(ctx, cfg)
		if err != nil {
			return nil, cleanup, err
		}
		opts = append(opts, pipeline.WithStore(store))
	}

	if parts.reviewer && cfg.APIKey != "" {
		client, err := newLLMClient(ctx, cfg)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { _ = client.Close() }
		opts = append(opts, pipeline.WithReviewer(review.NewAnalyzer(client, review.WithRepairAttempts(cfg.ReviewRepairAttempts))))
	}

	return pipeline.NewEngine(opts...), cleanup, nil
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
	default:
		return storage.NewLocalStore(cfg.OutputDir)
	}
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	provider, err := llm.ParseProvider(cfg.LLMProvider)
	if err != nil {
		return nil, err
	}
	llmCfg := llm.DefaultConfigFor(provider)
	if cfg.LLMModel != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.LLMModel)
	}
	if cfg.LLMBaseURL != "" {
		llmCfg.BaseURL = cfg.LLMBaseURL
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

func rateLimitConfig(cfg *config.Config) *ratelimit.Config {
	rl := ratelimit.DefaultConfig()
	rl.Enabled = !cfg.RateLimitDisabled
	rl.DefaultLimit = cfg.RateLimitDefault
	rl.DefaultWindow = cfg.RateLimitWindow.Duration
	rl.Whitelist = ratelimit.ParseIPList(cfg.RateLimitWhitelist)
	rl.Blacklist = ratelimit.ParseIPList(cfg.RateLimitBlacklist)
	return rl
}

// inputFlags are the resume and job description flags shared by the analysis commands.
type inputFlags struct {
	resumeFile string
	jobText    string
	jobFile    string
	jobURL     string
	level      string
	jsonOutput bool
}

func (f *inputFlags) register(cmd *cobra.Command, withJob bool) {
	cmd.Flags().StringVarP(&f.resumeFile, "resume", "r", "", "Path to resume file (PDF, DOCX or TXT)")
	cmd.Flags().StringVarP(&f.level, "level", "l", "", "Profile level (junior, mid, senior; default mid)")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Print JSON instead of a summary")
	_ = cmd.MarkFlagRequired("resume")
	if withJob {
		cmd.Flags().StringVarP(&f.jobText, "job", "j", "", "Job description text")
		cmd.Flags().StringVar(&f.jobFile, "job-file", "", "Path to job description file (PDF, DOCX or TXT)")
		cmd.Flags().StringVar(&f.jobURL, "job-url", "", "URL of the job posting")
		cmd.MarkFlagsMutuallyExclusive("job", "job-file")
	}
}

// request reads the files named by the flags into a pipeline request.
func (f *inputFlags) request(cmd *cobra.Command, cfg *config.Config) (pipeline.Request, error) {
	data, err := os.ReadFile(f.resumeFile)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("failed to read resume file: %w", err)
	}

	job := f.jobText
	if f.jobFile != "" {
		text, _, err := ingestion.IngestFromFile(f.jobFile)
		if err != nil {
			return pipeline.Request{}, fmt.Errorf("failed to read job description file: %w", err)
		}
		job = text
	}

	req := pipeline.Request{
		Resume: pipeline.Upload{
			Filename:    filepath.Base(f.resumeFile),
			ContentType: mime.TypeByExtension(filepath.Ext(f.resumeFile)),
			Data:        data,
		},
		JobDescription:    job,
		JobDescriptionURL: f.jobURL,
		ProfileLevel:      f.level,
	}
	if cfg.Verbose {
		req.OnProgress = progressPrinter(cmd.ErrOrStderr())
	}
	return req, nil
}

func progressPrinter(w io.Writer) pipeline.ProgressCallback {
	return func(e pipeline.ProgressEvent) {
		_, _ = fmt.Fprintf(w, "[%s] %s\n", e.Step, e.Message)
	}
}

func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}
