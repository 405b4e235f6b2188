package cli

import (
	"errors"
	"fmt"

	"github.com/tracedown/tracedown/internal/workspace"
)

var errUserAction = errors.New("user requires 'use <id>' or 'current'")

const userHelp = `  user use <id>           Select the working user
  user current            Print the selected user`

func cmdUser(o *IO, ws *workspace.Workspace, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: tracedown user use <id>")
		o.Println("       tracedown user current")

		return nil
	}

	if len(args) == 0 {
		return errUserAction
	}

	switch args[0] {
	case "use":
		if len(args) < 2 {
			return errUserAction
		}

		id := args[1]

		_, ok, err := ws.Users.Load(id)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%w: %s", errNotFound, id)
		}

		return ws.SetCurrentUser(id)
	case "current":
		current, err := ws.CurrentUser()
		if err != nil {
			return err
		}

		if current == "" {
			return fmt.Errorf("%w: no user in use", errNoSelection)
		}

		o.Println(current)

		return nil
	default:
		return errUserAction
	}
}
