package cli

import (
	"context"

	"github.com/tracedown/tracedown/internal/workspace"
)

const statusHelp = `  status                  List pending changes`

func cmdStatus(ctx context.Context, o *IO, ws *workspace.Workspace, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: tracedown status")
		o.Println("")
		o.Println("List files that differ from the last commit, plus files on disk")
		o.Println("that were never staged. Editor swap files are filtered out.")

		return nil
	}

	changes, err := ws.Status.Changes(ctx)
	if err != nil {
		return err
	}

	if len(changes) == 0 {
		o.Println("clean")

		return nil
	}

	for _, change := range changes {
		o.Printf("%-9s %s\n", string(change.State), change.Path)
	}

	return nil
}
