package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pydepsync/pydepsync/constants/lipgloss"
)

// ConfirmPrompt asks a yes/no question and returns true for an affirmative
// answer. EOF or an empty answer counts as no.
func ConfirmPrompt(reader *bufio.Reader, question string) bool {
	fmt.Print(lipgloss.BlueSky.Render(question + " (y/N): "))

	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}

	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
