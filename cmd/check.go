package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/pydepsync/pydepsync/constants/lipgloss"
	"github.com/pydepsync/pydepsync/utils"
)

// checkCmd: pydepsync check
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scan the project and report imports missing from the requirements file.",
	Long: `The 'check' subcommand walks the project tree, extracts import statements
from Python sources (using the cache for unchanged files), resolves them to
published package names, and reconciles against the requirements manifest.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		handleCheckCommand(rootDependencies)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func handleCheckCommand(rootDependencies *RootDependencies) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)

	var spinnerScan *pterm.SpinnerPrinter
	if !rootDependencies.Config.Quiet {
		spinnerScan, _ = spinner.Start("Analyzing dependencies...")
	}

	result, err := rootDependencies.Checker.Check(ctx)

	if spinnerScan != nil {
		spinnerScan.Stop()
		fmt.Print("\r")
	}

	if err != nil {
		if ctx.Err() != nil {
			fmt.Println(lipgloss.Yellow.Render("Check interrupted."))
			os.Exit(2)
		}
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(2)
	}

	utils.GenerateReport(result, utils.ReportOptions{
		ProjectRoot: rootDependencies.Config.ProjectRoot,
		Verbose:     rootDependencies.Config.Verbose,
		Quiet:       rootDependencies.Config.Quiet,
		Theme:       rootDependencies.Config.Theme,
	})

	if rootDependencies.Config.Output != "" && result.HasMissing() {
		if err := utils.WriteMissingToFile(rootDependencies.Config.Output, result.Missing); err != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: could not write output file: %v", err)))
		} else if rootDependencies.Config.Verbose {
			fmt.Println(lipgloss.Gray.Render("Missing dependencies written to " + rootDependencies.Config.Output))
		}
	}

	if result.HasMissing() {
		os.Exit(1)
	}
}
