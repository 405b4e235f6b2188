package cli

import (
	"context"
	"time"

	"github.com/tracedown/tracedown/internal/workspace"
)

const historyHelp = `  history [id]            Show commit history, optionally for one artifact`

func cmdHistory(ctx context.Context, o *IO, ws *workspace.Workspace, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: tracedown history [id]")
		o.Println("")
		o.Println("Show commits newest first. With an artifact ID only commits that")
		o.Println("touched that artifact's file are shown, following renames.")

		return nil
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	}

	commits, err := ws.History(ctx, id)
	if err != nil {
		return err
	}

	for _, commit := range commits {
		line := commit.Hash + " " + commit.Message
		if commit.Author != "" {
			line += " (" + commit.Author
			if commit.Timestamp != 0 {
				line += ", " + time.Unix(commit.Timestamp, 0).UTC().Format(time.DateOnly)
			}

			line += ")"
		}

		o.Println(line)
	}

	return nil
}
