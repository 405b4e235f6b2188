package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const shellHelp = `  shell                   Interactive session over one workspace`

// shellCommands are the commands the shell completes and dispatches.
// "shell" itself is excluded: the REPL does not nest.
//
//nolint:gochecknoglobals // package-level constant
var shellCommands = []string{
	"new", "ls", "show", "rm", "link", "status", "history",
	"repair", "project", "user", "help", "exit", "quit",
}

func shellHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".tracedown_history")
}

// cmdShell runs a readline-style loop over the already open workspace. The
// commit queue and counter state stay warm between commands, which is the
// point: a shell session never pays the per-invocation startup repair.
func cmdShell(ctx context.Context, o *IO, sess *session, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: tracedown shell")
		o.Println("")
		o.Println("Run commands interactively against one workspace. Line editing,")
		o.Println("history, and tab completion of command names are available.")

		return nil
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeCommand)

	if f, err := os.Open(shellHistoryFile()); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}

	o.Println("tracedown shell - type 'help' for commands, 'exit' to leave")

	defer saveShellHistory(line)

	for {
		input, err := line.Prompt("tracedown> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		parts := strings.Fields(input)
		cmd := parts[0]

		switch cmd {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			printUsage(o.out)

			continue
		case "shell":
			o.ErrPrintln("error: already in a shell")

			continue
		}

		dispatchErr := dispatch(ctx, o, sess, cmd, parts[1:])
		if dispatchErr != nil {
			o.ErrPrintln("error:", dispatchErr)
		}
	}
}

func completeCommand(line string) []string {
	var matches []string

	for _, cmd := range shellCommands {
		if strings.HasPrefix(cmd, strings.ToLower(line)) {
			matches = append(matches, cmd)
		}
	}

	return matches
}

func saveShellHistory(line *liner.State) {
	path := shellHistoryFile()
	if path == "" {
		return
	}

	f, err := os.Create(path) //nolint:gosec // fixed path under the user's home
	if err != nil {
		return
	}

	_, _ = line.WriteHistory(f)
	_ = f.Close()
}
