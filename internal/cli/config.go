package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/clipsight/clipsight/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Clipsight configuration",
	Long: `Manage Clipsight configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CLIPSIGHT_*)
3. Config file (~/.clipsight/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()

		configFile := viper.ConfigFileUsed()
		if configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		// API keys never echo back
		cfg.Embedding.APIKey = ""
		cfg.LLM.APIKey = ""

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))

		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (CLIPSIGHT_*, OPENAI_API_KEY, ANTHROPIC_API_KEY)")
		fmt.Println("  3. Config file (~/.clipsight/config.yaml)")
		fmt.Println("  4. Defaults")

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := home + "/.clipsight"
		configPath := configDir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'clipsight config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		header := "# Clipsight configuration file\n" +
			"#\n" +
			"# Configuration hierarchy (highest to lowest priority):\n" +
			"#   1. CLI flags\n" +
			"#   2. Environment variables (CLIPSIGHT_*)\n" +
			"#   3. This config file\n" +
			"#   4. Built-in defaults\n\n"
		footer := "\n# API keys (use environment variables instead of this file):\n" +
			"#   export OPENAI_API_KEY=sk-...\n" +
			"#   export ANTHROPIC_API_KEY=sk-ant-...\n" +
			"#   export OLLAMA_BASE_URL=http://localhost:11434\n"

		if _, err := f.WriteString(header); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}
		if _, err := f.Write(yamlData); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}
		if _, err := f.WriteString(footer); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Printf("Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  clipsight config show\n")
		fmt.Printf("\n")

		return nil
	},
}

// buildConfig assembles the effective configuration: defaults, then config
// file and CLIPSIGHT_* environment overrides, then API keys from the
// conventional environment variables
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	setString := func(key string, target *string) {
		if viper.IsSet(key) {
			*target = viper.GetString(key)
		}
	}
	setString("embedding.provider", &cfg.Embedding.Provider)
	setString("embedding.model", &cfg.Embedding.Model)
	setString("embedding.base_url", &cfg.Embedding.BaseURL)
	setString("llm.provider", &cfg.LLM.Provider)
	setString("llm.model", &cfg.LLM.Model)
	setString("llm.base_url", &cfg.LLM.BaseURL)
	setString("store.path", &cfg.Store.Path)
	setString("cache.dir", &cfg.Cache.Dir)

	if viper.IsSet("embedding.dimension") {
		cfg.Embedding.Dimension = viper.GetInt("embedding.dimension")
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("batch.chunk_size") {
		cfg.Batch.ChunkSize = viper.GetInt("batch.chunk_size")
	}
	if viper.IsSet("batch.chunk_delay") {
		cfg.Batch.ChunkDelay = viper.GetDuration("batch.chunk_delay")
	}
	if viper.IsSet("retrieval.threshold") {
		cfg.Retrieval.Threshold = viper.GetFloat64("retrieval.threshold")
	}
	if viper.IsSet("retrieval.count") {
		cfg.Retrieval.Count = viper.GetInt("retrieval.count")
	}

	applyAPIKeys(cfg)
	cfg.Verbose = verbose

	return cfg
}

// applyAPIKeys fills provider credentials from the environment
func applyAPIKeys(cfg *model.Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.Embedding.Provider == "openai" {
			cfg.Embedding.APIKey = key
		}
		if cfg.LLM.Provider == "openai" {
			cfg.LLM.APIKey = key
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		if cfg.LLM.Provider == "anthropic" || cfg.LLM.Provider == "claude" {
			cfg.LLM.APIKey = key
		}
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		if cfg.Embedding.Provider == "ollama" {
			cfg.Embedding.BaseURL = baseURL
		}
		if cfg.LLM.Provider == "ollama" {
			cfg.LLM.BaseURL = baseURL
		}
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
