package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "jobhunt"

type Config struct {
	Profile string        `mapstructure:"profile"`
	Search  *SearchConfig `mapstructure:"search"`
	Data    *DataConfig   `mapstructure:"data"`
	Apply   *ApplyConfig  `mapstructure:"apply"`
	AI      *AIConfig     `mapstructure:"ai"`
}

type SearchConfig struct {
	MinMatchScore    int `mapstructure:"min-match-score"`
	DedupWindowDays  int `mapstructure:"dedup-window-days"`
	MaxJobsPerSource int `mapstructure:"max-jobs-per-source"`
}

type DataConfig struct {
	SeenFile    string `mapstructure:"seen-file"`
	AppliedFile string `mapstructure:"applied-file"`
	ReportFile  string `mapstructure:"report-file"`
}

type ApplyConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	MaxPerRun    int    `mapstructure:"max-per-run"`
	ResumeFile   string `mapstructure:"resume-file"`
	EmailFile    string `mapstructure:"email-file"`
	PasswordFile string `mapstructure:"password-file"`
	Headless     bool   `mapstructure:"headless"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobhunt finds QA postings across job boards, scores them against your profile and optionally auto-applies",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("apply.email-file", "LINKEDIN_EMAIL_FILE"); err != nil {
		log.Fatalf("binding LINKEDIN_EMAIL_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("apply.password-file", "LINKEDIN_PASSWORD_FILE"); err != nil {
		log.Fatalf("binding LINKEDIN_PASSWORD_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobhunt.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the pipeline commands. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" && scheduleCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	viper.SetDefault("profile", "profile.json")
	viper.SetDefault("search.min-match-score", 50)
	viper.SetDefault("search.dedup-window-days", 7)
	viper.SetDefault("data.seen-file", "data/seen_jobs.json")
	viper.SetDefault("data.applied-file", "data/applied_jobs.json")
	viper.SetDefault("data.report-file", "data/latest_jobs.json")
	viper.SetDefault("apply.max-per-run", 10)

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config != nil {
		if config.Search == nil {
			config.Search = &SearchConfig{}
		}
		if config.Data == nil {
			config.Data = &DataConfig{}
		}
		if config.Apply == nil {
			config.Apply = &ApplyConfig{}
		}
	}

	return config, nil
}
