package cli

import (
	"context"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/tracedown/tracedown/internal/artifact"
	"github.com/tracedown/tracedown/internal/workspace"
)

const rmHelp = `  rm <id>                 Delete an artifact (projects are soft-deleted)
    --no-commit             Apply the deletion without committing`

func cmdRm(ctx context.Context, o *IO, ws *workspace.Workspace, args []string) error {
	flagSet := flag.NewFlagSet("rm", flag.ContinueOnError)
	flagSet.SetOutput(&strings.Builder{})

	noCommit := flagSet.Bool("no-commit", false, "Apply without committing")

	if hasHelpFlag(args) {
		o.Println("Usage: tracedown rm <id> [options]")
		o.Println("")
		o.Println("Delete one artifact. Projects are soft-deleted: the file stays on")
		o.Println("disk with a deletion marker so their artifacts remain reachable.")
		o.Println("Every other kind is removed from disk and unstaged.")

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
	message := commitMessage(*noCommit, "Delete "+id)

	kind, err := artifact.KindForID(id)
	if err != nil {
		// Not a sequential ID: treat as a project.
		return softDeleteProject(ctx, o, ws, id, message)
	}

	deleteErr := deleteByKind(ctx, ws, kind, id, message)
	if deleteErr != nil {
		return deleteErr
	}

	o.Println("deleted", id)

	return nil
}

func softDeleteProject(ctx context.Context, o *IO, ws *workspace.Workspace, id, message string) error {
	project, ok, err := ws.Projects.Load(id)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: %s", errNotFound, id)
	}

	project.MarkDeleted()

	saveErr := ws.Projects.Save(ctx, project, message)
	if saveErr != nil {
		return saveErr
	}

	o.Println("soft-deleted", id)

	return nil
}

func deleteByKind(ctx context.Context, ws *workspace.Workspace, kind artifact.Kind, id, message string) error {
	switch kind {
	case artifact.KindRequirement:
		return ws.Requirements.Delete(ctx, id, message)
	case artifact.KindUseCase:
		return ws.UseCases.Delete(ctx, id, message)
	case artifact.KindTestCase:
		return ws.TestCases.Delete(ctx, id, message)
	case artifact.KindInformation:
		return ws.Information.Delete(ctx, id, message)
	case artifact.KindRisk:
		return ws.Risks.Delete(ctx, id, message)
	case artifact.KindUser:
		return ws.Users.Delete(ctx, id, message)
	case artifact.KindLink:
		return ws.Links.Delete(ctx, id, message)
	case artifact.KindProject:
		return ws.Projects.Delete(ctx, id, message)
	default:
		return fmt.Errorf("%w: %s", errNotFound, id)
	}
}
