package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Stdin is where prompts read answers from.
var Stdin io.Reader = os.Stdin

func readAnswer() string {
	reader := bufio.NewReader(Stdin)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		// EOF or a closed terminal takes the default
		return ""
	}
	return strings.TrimSpace(response)
}

func PromptString(prompt string, def string) string {
	fmt.Printf("%s (%s): ", prompt, def)

	response := readAnswer()
	if response == "" {
		return def
	}

	return response
}

func PromptYN(prompt string, def bool) bool {
	if def {
		fmt.Printf("%s (Y/n): ", prompt)
	} else {
		fmt.Printf("%s (y/N): ", prompt)
	}

	response := readAnswer()
	if response == "" {
		return def
	}

	return strings.ToLower(response) == "y"
}
