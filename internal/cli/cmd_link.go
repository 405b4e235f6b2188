package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/tracedown/tracedown/internal/links"
	"github.com/tracedown/tracedown/internal/workspace"
)

var (
	errLinkArgs    = errors.New("link requires <source> <target> <type>")
	errLinkExists  = errors.New("link already exists")
	errUnknownType = errors.New("unknown link type")
	errLinkLsArgs  = errors.New("link ls requires <id>")
)

const linkHelp = `  link <src> <tgt> <type> Create a typed link between two artifacts
    --project <id>          Scope the link to a project (repeatable)
    --no-commit             Write the link without committing
  link ls <id>            Show links touching an artifact
  link types              List known link types`

func cmdLink(ctx context.Context, o *IO, ws *workspace.Workspace, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: tracedown link <source> <target> <type> [options]")
		o.Println("       tracedown link ls <id>")
		o.Println("       tracedown link types")
		o.Println("")
		o.Println("Links are directed: 'TC-001 REQ-001 verifies' reads as the test")
		o.Println("case verifying the requirement. Neither endpoint is required to")
		o.Println("exist; dangling links are reported by queries, not rejected here.")

		return nil
	}

	if len(args) > 0 && args[0] == "ls" {
		return cmdLinkLs(o, ws, args[1:])
	}

	if len(args) > 0 && args[0] == "types" {
		for _, linkType := range links.Types() {
			o.Printf("%-10s (inverse: %s)\n", string(linkType), links.Inverse(linkType))
		}

		return nil
	}

	return cmdLinkCreate(ctx, o, ws, args)
}

func cmdLinkCreate(ctx context.Context, o *IO, ws *workspace.Workspace, args []string) error {
	flagSet := flag.NewFlagSet("link", flag.ContinueOnError)
	flagSet.SetOutput(&strings.Builder{})

	projects := flagSet.StringArray("project", nil, "Scope to a project (repeatable)")
	noCommit := flagSet.Bool("no-commit", false, "Write without committing")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	const linkArgCount = 3
	if flagSet.NArg() < linkArgCount {
		return errLinkArgs
	}

	source := flagSet.Arg(0)
	target := flagSet.Arg(1)
	linkType := links.Type(flagSet.Arg(2))

	if !knownType(linkType) {
		return fmt.Errorf("%w: %s", errUnknownType, linkType)
	}

	exists, err := ws.Links.Exists(source, target, linkType)
	if err != nil {
		return err
	}

	if exists {
		return fmt.Errorf("%w: %s %s %s", errLinkExists, source, string(linkType), target)
	}

	message := commitMessage(*noCommit, fmt.Sprintf("Link %s %s %s", source, string(linkType), target))

	link, err := ws.Links.Create(ctx, source, target, linkType, *projects, message)
	if err != nil {
		return err
	}

	o.Println(link.ID)

	return nil
}

func knownType(linkType links.Type) bool {
	for _, known := range links.Types() {
		if known == linkType {
			return true
		}
	}

	return false
}

func cmdLinkLs(o *IO, ws *workspace.Workspace, args []string) error {
	if len(args) == 0 {
		return errLinkLsArgs
	}

	id := args[0]

	outgoing, err := ws.Links.Outgoing(id)
	if err != nil {
		return err
	}

	for _, link := range outgoing {
		o.Printf("%s %s %s %s\n", link.ID, id, string(link.Type), link.TargetID)
	}

	incoming, err := ws.Links.IncomingLinks(id)
	if err != nil {
		return err
	}

	for _, link := range incoming {
		o.Printf("%s %s %s %s\n", link.ID, id, link.InverseType, link.SourceID)
	}

	return nil
}
