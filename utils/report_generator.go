package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/pydepsync/pydepsync/constants/lipgloss"
	"github.com/pydepsync/pydepsync/dep_checker/models"
)

// ReportOptions controls report rendering.
type ReportOptions struct {
	ProjectRoot string
	Verbose     bool
	Quiet       bool
	Theme       string
}

// GenerateReport renders the reconciliation result to the terminal.
// Quiet mode prints bare missing names (one per line) for pre-commit and
// script consumption.
func GenerateReport(result *models.ReconciliationResult, opts ReportOptions) {
	if opts.Quiet {
		for _, name := range result.Missing {
			fmt.Println(name)
		}
		return
	}

	fmt.Println(lipgloss.Info.Render(fmt.Sprintf("Scanned %d Python files", result.ScannedFileCount)))
	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✓ %d declared dependencies in use", len(result.Satisfied))))

	if len(result.Missing) == 0 {
		fmt.Println(lipgloss.Green.Render("✓ All imports are declared in the requirements file."))
	} else {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("✗ %d missing dependencies:", len(result.Missing))))
		for _, name := range result.Missing {
			fmt.Println(lipgloss.Red.Render("  - " + name))
		}
	}

	if opts.Verbose && len(result.Satisfied) > 0 {
		fmt.Println(lipgloss.Gray.Render("Satisfied: " + strings.Join(result.Satisfied, ", ")))
	}

	for _, parseErr := range result.ParseErrors {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("⚠ could not analyze %s: %s", parseErr.Path, parseErr.Message)))
		if opts.Verbose {
			printSourceContext(filepath.Join(opts.ProjectRoot, parseErr.Path), parseErr.Line, opts.Theme)
		}
	}
}

// printSourceContext highlights the lines around a parse failure so the user
// can see what tripped the parser.
func printSourceContext(path string, line int, theme string) {
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if theme == "" {
		theme = "dracula"
	}

	lines := strings.Split(string(content), "\n")
	start := line - 2
	if start < 1 {
		start = 1
	}
	end := line + 1
	if end > len(lines) {
		end = len(lines)
	}

	for i := start; i <= end; i++ {
		marker := "  "
		if i == line {
			marker = "> "
		}
		fmt.Print(lipgloss.Gray.Render(fmt.Sprintf("  %s%4d │ ", marker, i)))
		if err := quick.Highlight(os.Stdout, lines[i-1]+"\n", "python", "terminal256", theme); err != nil {
			fmt.Println(lines[i-1])
		}
	}
}

// WriteMissingToFile saves missing package names one per line.
func WriteMissingToFile(path string, missing []string) error {
	var sb strings.Builder
	for _, name := range missing {
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}
