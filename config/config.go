package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pydepsync/pydepsync/constants/lipgloss"
)

// Config represents the structure of the configuration file
type Config struct {
	ProjectRoot      string   `mapstructure:"project_root"`
	RequirementsFile string   `mapstructure:"requirements_file"`
	IgnoreDirs       []string `mapstructure:"ignore_dirs"`
	RespectGitignore bool     `mapstructure:"respect_gitignore"`
	EnableCache      bool     `mapstructure:"enable_cache"`
	CacheFile        string   `mapstructure:"cache_file"`
	UsePipreqs       bool     `mapstructure:"use_pipreqs"`
	Workers          int      `mapstructure:"workers"`
	Theme            string   `mapstructure:"theme"`
	Verbose          bool     `mapstructure:"verbose"`
	Quiet            bool     `mapstructure:"quiet"`
	Output           string   `mapstructure:"output"`
}

// DefaultConfig values
var DefaultConfig = Config{
	RequirementsFile: "requirements.txt",
	IgnoreDirs: []string{
		"build",
		"dist",
		"docs",
		"examples",
		"static",
		"tests",
	},
	RespectGitignore: true,
	EnableCache:      true,
	UsePipreqs:       false,
	Theme:            "dracula",
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	// Automatically read environment variables
	viper.SetEnvPrefix("PYDEPSYNC")
	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(2)
		}
	} else {
		// Look for configuration files in the current directory
		viper.SetConfigName("pydepsync-config")
		viper.AddConfigPath(cwd)

		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			// If YAML fails, try JSON; with neither present we run on defaults
			viper.SetConfigType("json")
			_ = viper.ReadInConfig()
		}
	}

	// Bind CLI flags to override config values
	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(2)
	}

	// Additional ignore dirs are additive on top of the configured list.
	if extra := viper.GetString("extra_ignore_dirs"); extra != "" {
		for _, dir := range strings.Split(extra, ",") {
			if dir = strings.TrimSpace(dir); dir != "" {
				config.IgnoreDirs = append(config.IgnoreDirs, dir)
			}
		}
	}

	return config
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("project_root", "")
	viper.SetDefault("requirements_file", DefaultConfig.RequirementsFile)
	viper.SetDefault("ignore_dirs", DefaultConfig.IgnoreDirs)
	viper.SetDefault("respect_gitignore", DefaultConfig.RespectGitignore)
	viper.SetDefault("enable_cache", DefaultConfig.EnableCache)
	viper.SetDefault("cache_file", "")
	viper.SetDefault("use_pipreqs", DefaultConfig.UsePipreqs)
	viper.SetDefault("workers", 0)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("verbose", false)
	viper.SetDefault("quiet", false)
	viper.SetDefault("output", "")
}

// bindEnv explicitly binds environment variables to configuration keys,
// which is how the hosting CI platform wires settings in.
func bindEnv() {
	_ = viper.BindEnv("project_root", "PYDEPSYNC_PROJECT_ROOT")
	_ = viper.BindEnv("requirements_file", "PYDEPSYNC_REQUIREMENTS_FILE")
	_ = viper.BindEnv("respect_gitignore", "PYDEPSYNC_RESPECT_GITIGNORE")
	_ = viper.BindEnv("enable_cache", "PYDEPSYNC_ENABLE_CACHE")
	_ = viper.BindEnv("cache_file", "PYDEPSYNC_CACHE_FILE")
	_ = viper.BindEnv("use_pipreqs", "PYDEPSYNC_USE_PIPREQS")
	_ = viper.BindEnv("workers", "PYDEPSYNC_WORKERS")
	_ = viper.BindEnv("extra_ignore_dirs", "PYDEPSYNC_IGNORE_DIRS")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("project_root", rootCmd.PersistentFlags().Lookup("project_root"))
	_ = viper.BindPFlag("requirements_file", rootCmd.PersistentFlags().Lookup("requirements_file"))
	_ = viper.BindPFlag("extra_ignore_dirs", rootCmd.PersistentFlags().Lookup("ignore_dirs"))
	_ = viper.BindPFlag("respect_gitignore", rootCmd.PersistentFlags().Lookup("respect_gitignore"))
	_ = viper.BindPFlag("enable_cache", rootCmd.PersistentFlags().Lookup("enable_cache"))
	_ = viper.BindPFlag("cache_file", rootCmd.PersistentFlags().Lookup("cache_file"))
	_ = viper.BindPFlag("use_pipreqs", rootCmd.PersistentFlags().Lookup("use_pipreqs"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("project_root", "", "Project root directory to scan. Defaults to the enclosing git repository root, or the current directory.")
	rootCmd.PersistentFlags().StringP("requirements_file", "r", DefaultConfig.RequirementsFile, "Path to the requirements manifest, relative to the project root.")
	rootCmd.PersistentFlags().String("ignore_dirs", "", "Comma-separated list of additional directory names to ignore.")
	rootCmd.PersistentFlags().Bool("respect_gitignore", DefaultConfig.RespectGitignore, "Honor .gitignore patterns when scanning.")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Enable the scan cache for faster repeated runs.")
	rootCmd.PersistentFlags().String("cache_file", "", "Cache file location. Defaults to .pydepsync_cache.json in the project root.")
	rootCmd.PersistentFlags().Bool("use_pipreqs", DefaultConfig.UsePipreqs, "Merge package names detected by the external pipreqs tool.")
	rootCmd.PersistentFlags().Int("workers", 0, "Number of parallel analysis workers. 0 uses the CPU count.")
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Syntax highlighting theme for verbose source context (e.g. 'dracula', 'monokai').")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output.")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Print only missing package names, one per line.")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Write missing package names to this file.")
}
