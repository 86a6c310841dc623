package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pydepsync/pydepsync/config"
	"github.com/pydepsync/pydepsync/constants/lipgloss"
	"github.com/pydepsync/pydepsync/dep_checker"
	"github.com/pydepsync/pydepsync/dep_checker/contracts"
	providers_contracts "github.com/pydepsync/pydepsync/providers/contracts"
	"github.com/pydepsync/pydepsync/providers/noop"
	"github.com/pydepsync/pydepsync/providers/pipreqs"
	"github.com/pydepsync/pydepsync/utils"
)

const version = "1.0.0"

// RootDependencies holds the resolved configuration and wired pipeline shared
// by all subcommands.
type RootDependencies struct {
	Config  *config.Config
	Cwd     string
	Checker contracts.IDependencyChecker
}

var rootCmd = &cobra.Command{
	Use:   "pydepsync",
	Short: "Check that every third-party Python import is declared in the requirements manifest.",
	Long: `pydepsync scans a Python project for import statements, resolves them to
published package names, and reconciles the result against the declared
requirements file. Designed as a pre-commit gate and CI check: exit code 0
means all imports are declared, 1 means missing dependencies were found, and
2 means the check could not start (configuration or IO failure).`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println("pydepsync " + version)
			return
		}
		rootDependencies := handleRootCommand(cmd)
		handleCheckCommand(rootDependencies)
	},
}

func init() {
	config.InitFlags(rootCmd)
	rootCmd.Flags().Bool("version", false, "Print the application version.")
}

// handleRootCommand loads configuration, resolves the project root, and wires
// the dependency checker. Failures here are configuration errors (exit 2).
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		os.Exit(2)
	}

	cfg := config.LoadConfigs(cmd.Root(), cwd)

	projectRoot := cfg.ProjectRoot
	if projectRoot == "" {
		git := utils.NewGitOperations(cwd)
		if git.IsGitRepo() {
			if top, err := git.GetRepoRoot(); err == nil {
				projectRoot = top
			}
		}
	}
	if projectRoot == "" {
		projectRoot = cwd
	}
	cfg.ProjectRoot = projectRoot

	checker, err := dep_checker.NewDependencyChecker(dep_checker.CheckerOptions{
		ProjectRoot:      projectRoot,
		RequirementsFile: cfg.RequirementsFile,
		IgnoreDirs:       cfg.IgnoreDirs,
		RespectGitignore: cfg.RespectGitignore,
		EnableCache:      cfg.EnableCache,
		CacheFile:        cfg.CacheFile,
		Workers:          cfg.Workers,
		Supplemental:     supplementalSource(cfg),
	})
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(2)
	}

	return &RootDependencies{
		Config:  cfg,
		Cwd:     cwd,
		Checker: checker,
	}
}

func supplementalSource(cfg *config.Config) providers_contracts.ISupplementalSource {
	if cfg.UsePipreqs {
		return pipreqs.NewPipreqsSupplementalSource(&pipreqs.PipreqsConfig{})
	}
	return noop.NewNoopSupplementalSource()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
