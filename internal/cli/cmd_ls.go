package cli

import (
	"fmt"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/tracedown/tracedown/internal/artifact"
	"github.com/tracedown/tracedown/internal/repo"
	"github.com/tracedown/tracedown/internal/workspace"
)

const lsHelp = `  ls [kind]               List artifacts, all kinds when omitted
    --all                   Include soft-deleted artifacts`

func cmdLs(o *IO, ws *workspace.Workspace, args []string) error {
	flagSet := flag.NewFlagSet("ls", flag.ContinueOnError)
	flagSet.SetOutput(&strings.Builder{})

	all := flagSet.Bool("all", false, "Include soft-deleted artifacts")

	if hasHelpFlag(args) {
		o.Println("Usage: tracedown ls [kind] [options]")
		o.Println("")
		o.Println("List artifacts sorted by ID. Soft-deleted artifacts are hidden")
		o.Println("unless --all is given.")

		return nil
	}

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	kinds := artifact.Kinds

	if flagSet.NArg() > 0 {
		kind, parseErr := artifact.ParseKind(flagSet.Arg(0))
		if parseErr != nil {
			return parseErr
		}

		kinds = []artifact.Kind{kind}
	}

	for _, kind := range kinds {
		metas, listErr := listKind(ws, kind, *all)
		if listErr != nil {
			return listErr
		}

		for _, meta := range metas {
			o.Println(formatArtifactLine(meta))
		}
	}

	return nil
}

func formatArtifactLine(meta artifact.Meta) string {
	line := meta.ID
	if meta.Title != "" {
		line += " - " + meta.Title
	}

	if meta.IsDeleted {
		line += " (deleted)"
	}

	return line
}

// listKind returns the shared metadata of every artifact of one kind,
// sorted by ID.
func listKind(ws *workspace.Workspace, kind artifact.Kind, includeDeleted bool) ([]artifact.Meta, error) {
	switch kind {
	case artifact.KindRequirement:
		return collectMetas(ws.Requirements, includeDeleted)
	case artifact.KindUseCase:
		return collectMetas(ws.UseCases, includeDeleted)
	case artifact.KindTestCase:
		return collectMetas(ws.TestCases, includeDeleted)
	case artifact.KindInformation:
		return collectMetas(ws.Information, includeDeleted)
	case artifact.KindRisk:
		return collectMetas(ws.Risks, includeDeleted)
	case artifact.KindUser:
		return collectMetas(ws.Users, includeDeleted)
	case artifact.KindProject:
		return collectMetas(ws.Projects, includeDeleted)
	case artifact.KindLink:
		return collectMetas(ws.Links.Repository, includeDeleted)
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownCommand, kind)
	}
}

// commoner is satisfied by every stored type through the embedded metadata.
type commoner interface {
	artifact.Identifiable
	Common() artifact.Meta
}

func collectMetas[T commoner](r *repo.Repository[T], includeDeleted bool) ([]artifact.Meta, error) {
	var (
		items []T
		err   error
	)

	if includeDeleted {
		items, err = r.LoadAll()
	} else {
		items, err = r.LoadActive()
	}

	if err != nil {
		return nil, err
	}

	metas := make([]artifact.Meta, 0, len(items))
	for _, item := range items {
		metas = append(metas, item.Common())
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].ID < metas[j].ID
	})

	return metas, nil
}
