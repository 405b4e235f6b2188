package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/tracedown/tracedown/internal/artifact"
	"github.com/tracedown/tracedown/internal/workspace"
)

var (
	errIDRequired = errors.New("artifact id is required")
	errNotFound   = errors.New("artifact not found")
)

const showHelp = `  show <id>               Print an artifact file
    --rev <revision>        Read the file as of a git revision`

func cmdShow(ctx context.Context, o *IO, ws *workspace.Workspace, args []string) error {
	flagSet := flag.NewFlagSet("show", flag.ContinueOnError)
	flagSet.SetOutput(&strings.Builder{})

	rev := flagSet.String("rev", "", "Git revision to read from")

	if hasHelpFlag(args) {
		o.Println("Usage: tracedown show <id> [options]")
		o.Println("")
		o.Println("Print the raw markdown file of one artifact. With --rev the file")
		o.Println("content is taken from that git revision instead of the workdir.")

		return nil
	}

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if flagSet.NArg() == 0 {
		return errIDRequired
	}

	id := flagSet.Arg(0)

	path, err := resolveArtifactPath(ws, id)
	if err != nil {
		return err
	}

	var content []byte

	if *rev != "" {
		content, err = ws.VCS.ReadFileAtRevision(ctx, path, *rev)
		if err != nil {
			return err
		}

		if content == nil {
			return fmt.Errorf("%w: %s at %s", errNotFound, id, *rev)
		}
	} else {
		content, err = ws.FS.ReadFile(path)
		if err != nil {
			return err
		}

		if content == nil {
			return fmt.Errorf("%w: %s", errNotFound, id)
		}
	}

	o.Printf("%s", string(content))

	return nil
}

// resolveArtifactPath maps an artifact ID to its workspace file. Sequential
// IDs resolve by prefix; anything else is tried as a project ID, since
// projects use time-ordered IDs without a prefix.
func resolveArtifactPath(ws *workspace.Workspace, id string) (string, error) {
	path, err := ws.PathForID(id)
	if err == nil {
		return path, nil
	}

	projectPath := artifact.KindProject.Path(id)

	exists, existsErr := ws.FS.Exists(projectPath)
	if existsErr != nil {
		return "", existsErr
	}

	if exists {
		return projectPath, nil
	}

	return "", err
}
