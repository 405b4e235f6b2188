package cli

import (
	"errors"
	"fmt"

	"github.com/tracedown/tracedown/internal/workspace"
)

var (
	errProjectAction = errors.New("project requires 'use <id>' or 'current'")
	errNoSelection   = errors.New("nothing selected")
)

const projectHelp = `  project use <id>        Select the working project
  project current         Print the selected project`

func cmdProject(o *IO, ws *workspace.Workspace, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: tracedown project use <id>")
		o.Println("       tracedown project current")
		o.Println("")
		o.Println("The selection is local state: it is written next to the artifact")
		o.Println("directories but never committed.")

		return nil
	}

	if len(args) == 0 {
		return errProjectAction
	}

	switch args[0] {
	case "use":
		if len(args) < 2 {
			return errProjectAction
		}

		id := args[1]

		_, ok, err := ws.Projects.Load(id)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%w: %s", errNotFound, id)
		}

		return ws.SetCurrentProject(id)
	case "current":
		current, err := ws.CurrentProject()
		if err != nil {
			return err
		}

		if current == "" {
			return fmt.Errorf("%w: no project in use", errNoSelection)
		}

		o.Println(current)

		return nil
	default:
		return errProjectAction
	}
}
