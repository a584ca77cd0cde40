package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "talent-scout"
)

type Config struct {
	GitHub   *GitHubConfig   `mapstructure:"github"`
	Profile  *ProfileConfig  `mapstructure:"profile"`
	AI       *AIConfig       `mapstructure:"ai"`
	Scoring  *ScoringConfig  `mapstructure:"scoring"`
	Filters  *FiltersConfig  `mapstructure:"filters"`
	Search   *SearchConfig   `mapstructure:"search"`
	Document *DocumentConfig `mapstructure:"document"`
}

type GitHubConfig struct {
	APIURL    string        `mapstructure:"api-url"`
	UserAgent string        `mapstructure:"user-agent"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token-file"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ProfileConfig struct {
	MaxRepositories int `mapstructure:"max-repositories"`
	LanguageSample  int `mapstructure:"language-sample"`
	Concurrency     int `mapstructure:"concurrency"`
	TopLanguages    int `mapstructure:"top-languages"`
	RecentDays      int `mapstructure:"recent-days"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	OpenAI   *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OpenAIConfig struct {
	BaseURL     string            `mapstructure:"base-url"`
	Model       string            `mapstructure:"model"`
	APIKey      string            `mapstructure:"api-key"`
	APIKeyFile  string            `mapstructure:"api-key-file"`
	Headers     map[string]string `mapstructure:"headers"`
	Temperature float64           `mapstructure:"temperature"`
	Timeout     time.Duration     `mapstructure:"timeout"`
}

type ScoringConfig struct {
	BatchSize int    `mapstructure:"batch-size"`
	Mode      string `mapstructure:"mode"`
}

type FiltersConfig struct {
	ExcludeHandles        []string `mapstructure:"exclude-handles"`
	ExcludeFile           string   `mapstructure:"exclude-file"`
	RequireRecentActivity bool     `mapstructure:"require-recent-activity"`
	MinStars              int      `mapstructure:"min-stars"`
}

type SearchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type DocumentConfig struct {
	OCRCommand string        `mapstructure:"ocr-command"`
	OCRArgs    []string      `mapstructure:"ocr-args"`
	OCRTimeout time.Duration `mapstructure:"ocr-timeout"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talent-scout finds and ranks developers for a role from their public GitHub activity",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"github.token-file":      "GITHUB_TOKEN_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"ai.openai.api-key-file": "OPENAI_API_KEY_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talent-scout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json or yaml")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

func setDefaults() {
	viper.SetDefault("profile.max-repositories", 100)
	viper.SetDefault("profile.language-sample", 20)
	viper.SetDefault("profile.concurrency", 8)
	viper.SetDefault("profile.top-languages", 5)
	viper.SetDefault("profile.recent-days", 30)
	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("scoring.batch-size", 10)
	viper.SetDefault("scoring.mode", "auto")
	viper.SetDefault("search.concurrency", 4)
}

func initConfig() {
	viper.SetEnvPrefix("TALENT_SCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	config.fillSections()
	return config, nil
}

// fillSections guarantees every section is non-nil so builders can read
// fields without checks.
func (c *Config) fillSections() {
	if c.GitHub == nil {
		c.GitHub = &GitHubConfig{}
	}
	if c.Profile == nil {
		c.Profile = &ProfileConfig{}
	}
	if c.AI == nil {
		c.AI = &AIConfig{}
	}
	if c.AI.Gemini == nil {
		c.AI.Gemini = &GeminiConfig{}
	}
	if c.AI.OpenAI == nil {
		c.AI.OpenAI = &OpenAIConfig{}
	}
	if c.Scoring == nil {
		c.Scoring = &ScoringConfig{}
	}
	if c.Filters == nil {
		c.Filters = &FiltersConfig{}
	}
	if c.Search == nil {
		c.Search = &SearchConfig{}
	}
	if c.Document == nil {
		c.Document = &DocumentConfig{}
	}
}
