package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pydepsync/pydepsync/constants/lipgloss"
	"github.com/pydepsync/pydepsync/utils"
)

// resetCacheCmd represents the reset-cache command
var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Remove the scan cache",
	Long: `The 'reset-cache' command deletes the cached per-file scan results.
Use it after changing the alias table or when experiencing cache-related
issues; the next check re-extracts every file from scratch.`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		stats, _ := cmd.Flags().GetBool("stats")
		handleResetCacheCommand(force, stats, cmd)
	},
}

func init() {
	resetCacheCmd.Flags().BoolP("force", "f", false, "Reset the cache without confirmation")
	resetCacheCmd.Flags().BoolP("stats", "s", false, "Show cache statistics instead of resetting")

	rootCmd.AddCommand(resetCacheCmd)
}

func handleResetCacheCommand(force bool, showStats bool, cmd *cobra.Command) {
	rootDependencies := handleRootCommand(cmd)

	if showStats {
		fmt.Println(lipgloss.Info.Render("Cache Statistics:"))
		cacheStats := rootDependencies.Checker.GetCacheStats()
		if enabled, ok := cacheStats["cache_enabled"].(bool); !ok || !enabled {
			fmt.Println("  Cache is disabled")
			return
		}
		if file, ok := cacheStats["cache_file"].(string); ok {
			fmt.Printf("  Cache File: %s\n", file)
		}
		if files, ok := cacheStats["cached_files"].(int); ok {
			fmt.Printf("  Cached Files: %d\n", files)
		}
		if size, ok := cacheStats["total_size"].(int64); ok {
			fmt.Printf("  Total Size: %.2f KB\n", float64(size)/1024)
		}
		return
	}

	if !force {
		reader := bufio.NewReader(os.Stdin)
		if !utils.ConfirmPrompt(reader, "Are you sure you want to reset the scan cache?") {
			fmt.Println(lipgloss.Yellow.Render("Cache reset cancelled."))
			return
		}
	}

	if err := rootDependencies.Checker.ClearCache(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error resetting cache: %v", err)))
		os.Exit(2)
	}

	fmt.Println(lipgloss.Green.Render("✓ Scan cache has been reset."))
}
