// Package cli holds the interactive input helpers shared by the
// dashboard subcommands.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Prompt asks for one line of input, returning def when the user enters
// nothing.
func Prompt(label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read input, using default")
		return def
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return def
	}
	return input
}

// Confirm asks a yes/no question; only an explicit "y"/"yes" is a yes.
func Confirm(label string) bool {
	answer := Prompt(label+" (y/N)", "n")
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
