package cli

import (
	"github.com/tracedown/tracedown/internal/artifact"
	"github.com/tracedown/tracedown/internal/workspace"
)

const repairHelp = `  repair                  Recalculate ID counters from the files on disk`

func cmdRepair(o *IO, ws *workspace.Workspace, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: tracedown repair")
		o.Println("")
		o.Println("Scan every artifact directory and raise each ID counter to the")
		o.Println("highest numeric suffix found. Counters never move down, so the")
		o.Println("repair is idempotent and safe on a healthy workspace.")

		return nil
	}

	err := ws.Counters.Recalculate()
	if err != nil {
		return err
	}

	for _, kind := range artifact.Kinds {
		if !kind.Numbered() {
			continue
		}

		current, readErr := ws.Counters.Current(kind)
		if readErr != nil {
			return readErr
		}

		o.Printf("%-12s %d\n", string(kind), current)
	}

	return nil
}
