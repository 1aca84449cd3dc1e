// Package cli is the terminal surface over the analysis pipeline.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verinews/verinews/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "verinews",
	Short: "VeriNews - credibility analysis for pasted news text",
	Long: `VeriNews submits unstructured text to a language-model provider and renders
a structured credibility assessment: a verdict, a confidence score, analysis
metrics, detected logical fallacies and linguistic patterns, and (when the
provider supports grounding) external citations.

VeriNews performs no linguistic or factual judgment locally. All judgment is
delegated to the configured provider; the offline heuristic variant is a
deliberately crude approximation for use without credentials.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("verinews v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.verinews/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in the config file and VERINEWS_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.verinews")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("VERINEWS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildConfig layers viper state over the built-in defaults.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	setString := func(key string, dst *string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if viper.IsSet(key) {
			*dst = viper.GetDuration(key)
		}
	}

	setString("provider.name", &cfg.Provider.Name)
	setString("provider.model", &cfg.Provider.Model)
	setString("provider.api_key", &cfg.Provider.APIKey)
	setString("provider.base_url", &cfg.Provider.BaseURL)
	setDuration("provider.timeout", &cfg.Provider.Timeout)
	setDuration("provider.delay", &cfg.Provider.Delay)
	setString("provider.http_proxy", &cfg.Provider.HTTPProxy)
	setString("provider.https_proxy", &cfg.Provider.HTTPSProxy)

	setString("history.path", &cfg.History.Path)
	if viper.IsSet("history.capacity") {
		cfg.History.Capacity = viper.GetInt("history.capacity")
	}

	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	setString("cache.dir", &cfg.Cache.Dir)
	setDuration("cache.memory_ttl", &cfg.Cache.MemoryTTL)
	setDuration("cache.disk_ttl", &cfg.Cache.DiskTTL)

	if viper.IsSet("rate_limit.requests_per_second") {
		cfg.RateLimit.RequestsPerSecond = viper.GetFloat64("rate_limit.requests_per_second")
	}
	if viper.IsSet("rate_limit.burst") {
		cfg.RateLimit.Burst = viper.GetInt("rate_limit.burst")
	}

	if viper.IsSet("concurrency.workers") {
		cfg.Concurrency.Workers = viper.GetInt("concurrency.workers")
	}

	cfg.Output.Verbose = verbose

	return cfg
}

// resolveAPIKey fills the provider credential from the environment when the
// config did not supply one. Absence is left for the provider to report as a
// configuration error before any network attempt.
func resolveAPIKey(cfg *model.Config) {
	if cfg.Provider.APIKey != "" {
		return
	}

	switch cfg.Provider.Name {
	case "gemini", "":
		cfg.Provider.APIKey = os.Getenv("GEMINI_API_KEY")
		if cfg.Provider.APIKey == "" {
			cfg.Provider.APIKey = os.Getenv("GOOGLE_API_KEY")
		}
	case "passthrough", "openai":
		cfg.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}
