package cmd

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/sdet-tools/jobhunt/internal/aggregate"
	"github.com/sdet-tools/jobhunt/internal/ai"
	"github.com/sdet-tools/jobhunt/internal/ai/gemini"
	"github.com/sdet-tools/jobhunt/internal/apply"
	"github.com/sdet-tools/jobhunt/internal/job"
	"github.com/sdet-tools/jobhunt/internal/ledger"
	"github.com/sdet-tools/jobhunt/internal/logger"
	"github.com/sdet-tools/jobhunt/internal/match"
	"github.com/sdet-tools/jobhunt/internal/profile"
	"github.com/sdet-tools/jobhunt/internal/secrets"
	"github.com/sdet-tools/jobhunt/internal/source"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var applyPrompt = promptui.Select{
	Label: "Auto-apply to eligible postings?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full discovery, scoring and apply pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before auto-applying")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting jobhunt", zap.String("version", version))

	prof, err := profile.Load(config.Profile)
	if err != nil {
		logger.Fatal("loading candidate profile",
			zap.Error(err),
			zap.String("hint", "set the 'profile' key to your resume profile JSON"),
		)
	}

	seen, err := ledger.NewSeenStore(config.Data.SeenFile, logger)
	if err != nil {
		logger.Fatal("opening seen ledger", zap.Error(err))
	}
	applications, err := ledger.NewApplicationStore(config.Data.AppliedFile, logger)
	if err != nil {
		logger.Fatal("opening application ledger", zap.Error(err))
	}

	scorer, advisor := buildAI(ctx, config.AI, logger)
	engine := match.NewEngine(scorer, advisor, prof, logger)

	// One headless session serves LinkedIn search and description
	// enrichment. Without a local Chrome the HTTP boards still run.
	var renderer source.Renderer
	if browser, err := source.NewBrowser(ctx, true, logger); err != nil {
		logger.Warn("browser unavailable, skipping linkedin and enrichment", zap.Error(err))
	} else {
		defer browser.Close()
		renderer = browser
		loginForSearch(ctx, browser, config.Apply, logger)
	}

	buckets := aggregate.New(buildAdapters(config, prof, renderer, logger), logger).Run(ctx)
	totalScraped := buckets.Total()
	if totalScraped == 0 {
		logger.Info("exiting", zap.String("reason", "no postings found"))
		return
	}

	windowDays := config.Search.DedupWindowDays
	for _, category := range job.Categories() {
		buckets[category] = seen.FilterNew(buckets[category], windowDays)
	}
	if err := seen.Flush(); err != nil {
		logger.Error("flushing seen ledger", zap.Error(err))
	}
	if buckets.Total() == 0 {
		logger.Info("exiting", zap.String("reason", "no new postings after dedup"))
		return
	}

	if renderer != nil {
		source.NewEnricher(renderer, 0, logger).Enrich(ctx, buckets.Flatten())
	}

	if viper.GetBool("debug") {
		path := filepath.Join(filepath.Dir(config.Data.ReportFile), "scraped_jobs.json")
		if err := buckets.DumpToFile(path); err != nil {
			logger.Warn("dumping scraped postings", zap.Error(err))
		} else {
			logger.Debug("scraped postings dumped", zap.String("path", path))
		}
	}

	matched := job.NewBuckets()
	for _, category := range job.Categories() {
		matched[category] = engine.BatchScore(ctx, buckets[category], config.Search.MinMatchScore)
	}

	var applySummary apply.Summary
	if config.Apply.Enabled && matched.Total() > 0 && confirmApply(cmd, logger) {
		applySummary = runAutoApply(ctx, config.Apply, applications, prof, matched, logger)
		if err := applications.Flush(); err != nil {
			logger.Error("flushing application ledger", zap.Error(err))
		}
	}

	plan := engine.SkillGap(ctx, matched.Flatten())

	if err := writeReport(config.Data.ReportFile, matched, plan, totalScraped, applySummary); err != nil {
		logger.Error("writing report", zap.Error(err))
	} else {
		logger.Info("report written", zap.String("path", config.Data.ReportFile))
	}

	logger.Info("run complete",
		zap.Int("scraped", totalScraped),
		zap.Int("matched", matched.Total()),
		zap.Int("applications_attempted", applySummary.Attempted),
		zap.Int("applications_submitted", applySummary.Applied),
	)
}

// buildAI wires the Gemini scorer and advisor. Without a configured key the
// pipeline still runs on the title fallback, so absence is a warning, but a
// configured key that cannot be loaded is fatal.
func buildAI(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Scorer, ai.Generator) {
	if cfg == nil || cfg.Gemini == nil || strings.TrimSpace(cfg.Gemini.APIKeyFile) == "" {
		logger.Warn("gemini api key not configured, scoring with title fallback only",
			zap.String("hint", "set ai.gemini.api-key-file or GEMINI_API_KEY_FILE"),
		)
		return nil, nil
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		logger.Fatal("loading gemini api key", zap.Error(err))
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, logger)
	if err != nil {
		logger.Fatal("creating gemini client", zap.Error(err))
	}

	return gemini.NewScorer(generator, logger, cfg.Gemini.MaxLogLength), generator
}

func buildAdapters(config *Config, prof *profile.Profile, renderer source.Renderer, logger *zap.Logger) []source.Adapter {
	client := source.NewClient(logger)
	maxJobs := config.Search.MaxJobsPerSource

	adapters := []source.Adapter{
		source.NewRemotive(client, maxJobs, logger),
		source.NewWeWorkRemotely(client, maxJobs, logger),
		source.NewHimalayas(client, maxJobs, logger),
		source.NewRelocateMe(client, maxJobs, logger),
	}

	if strings.EqualFold(prof.HomeCountry(), "india") {
		adapters = append(adapters, source.NewNaukri(client, maxJobs, logger))
	}

	if renderer != nil {
		adapters = append(adapters, source.NewLinkedIn(renderer, prof.HomeCountry(), maxJobs, logger))
	}

	return adapters
}

// loginForSearch signs the search session into LinkedIn when credentials are
// configured. Best effort: public search works without it.
func loginForSearch(ctx context.Context, browser *source.Browser, cfg *ApplyConfig, logger *zap.Logger) {
	email, password, err := linkedInCredentials(cfg)
	if err != nil {
		logger.Debug("searching linkedin without login", zap.Error(err))
		return
	}
	if err := browser.Login(ctx, email, password); err != nil {
		logger.Warn("linkedin login failed, continuing without login", zap.Error(err))
	}
}

func linkedInCredentials(cfg *ApplyConfig) (string, string, error) {
	email, err := secrets.Load(secrets.Source{
		Name: "linkedin email",
		File: cfg.EmailFile,
		Env:  "LINKEDIN_EMAIL",
	})
	if err != nil {
		return "", "", err
	}
	password, err := secrets.Load(secrets.Source{
		Name: "linkedin password",
		File: cfg.PasswordFile,
		Env:  "LINKEDIN_PASSWORD",
	})
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func confirmApply(cmd *cobra.Command, logger *zap.Logger) bool {
	if cmd.Flag("yes").Value.String() == "true" {
		return true
	}

	_, action, err := applyPrompt.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}
	if action != PromptYes {
		logger.Info("skipping auto-apply", zap.String("reason", "got no from prompt"))
		return false
	}
	return true
}

func runAutoApply(ctx context.Context, cfg *ApplyConfig, store *ledger.ApplicationStore, prof *profile.Profile, matched job.Buckets, logger *zap.Logger) apply.Summary {
	// Auto-apply was explicitly enabled, so missing credentials are a
	// configuration error, not a degraded mode.
	email, password, err := linkedInCredentials(cfg)
	if err != nil {
		logger.Fatal("auto-apply enabled but linkedin credentials missing", zap.Error(err))
	}

	session, err := apply.NewChromeSession(ctx, cfg.Headless, logger)
	if err != nil {
		logger.Error("browser unavailable for auto-apply", zap.Error(err))
		return apply.Summary{}
	}
	defer session.Close()

	if err := session.Login(ctx, email, password); err != nil {
		logger.Error("skipping auto-apply", zap.Error(err))
		return apply.Summary{}
	}

	driver := apply.NewDriver(session, store, prof, cfg.ResumeFile, cfg.MaxPerRun, logger)
	return driver.Run(ctx, matched.Flatten())
}
