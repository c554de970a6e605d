package common

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// PromptForInput prompts on stdin and reads a line. Empty string is returned on error
func PromptForInput(prompt string) string {
	fmt.Println(prompt)
	reader := bufio.NewReader(os.Stdin)
	text, _ := reader.ReadString('\n')
	return strings.TrimSpace(text)
}

func Yes(prompt string) bool {
	text := PromptForInput(prompt + "?[y/n]:")
	return text != "" && (text[0] == 'y' || text[0] == 'Y')
}

// Abort does nothing if err is nil, otherwise logs the error and exits
func Abort(err error) {
	if err != nil {
		msg := strings.TrimLeft(err.Error(), " ")
		if !loggingInitialized() {
			fmt.Println(msg)
		} else {
			msg = strings.TrimPrefix(msg, "Error")
			msg = strings.TrimPrefix(msg, "error")
			LogError.Println(msg)
		}
		os.Exit(1)
	}
}

func AbortWithString(msg string) {
	Abort(errors.New(msg))
}

func InvalidArgs(msg string) {
	Abort(fmt.Errorf("%s. Type --help", msg))
}

// SameStrings reports whether a and b hold the same strings in the same order
func SameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func CloneStringSlice(a []string) []string {
	clone := append([]string(nil), a...)
	return clone
}
