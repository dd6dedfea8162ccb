// Package cli runs line-oriented developer consoles.
package cli

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
)

type ExecFunc func(line string)
type CompleteFunc func(d prompt.Document) []prompt.Suggest

// MainLoop reads commands from interactive terminal with completion,
// or line by line from piped stdin.
func MainLoop(tag string, exec ExecFunc, complete CompleteFunc) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		prompt.New(prompt.Executor(exec), prompt.Completer(complete),
			prompt.OptionPrefix(tag+"> "),
			prompt.OptionTitle(tag),
		).Run()
		return
	}
	ReadLines(os.Stdin, exec)
}

// ReadLines feeds trimmed non-empty lines to exec until EOF.
func ReadLines(r io.Reader, exec ExecFunc) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			exec(line)
		}
	}
}

// Suggest completes first word from static command list.
func Suggest(commands []prompt.Suggest) CompleteFunc {
	return func(d prompt.Document) []prompt.Suggest {
		if strings.Contains(d.TextBeforeCursor(), " ") {
			return nil
		}
		return prompt.FilterHasPrefix(commands, d.GetWordBeforeCursor(), true)
	}
}
