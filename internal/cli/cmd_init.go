package cli

import (
	"context"

	"github.com/tracedown/tracedown/internal/workspace"
)

const initHelp = `  init                    Create the workspace skeleton and git repository`

func cmdInit(ctx context.Context, o *IO, ws *workspace.Workspace, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: tracedown init")
		o.Println("")
		o.Println("Create the artifact directories, the counter directory, and an")
		o.Println("empty git repository. Safe to run on an existing workspace.")

		return nil
	}

	err := ws.Init(ctx)
	if err != nil {
		return err
	}

	o.Println("initialized workspace at", ws.FS.Root())

	return nil
}
