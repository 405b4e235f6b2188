package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/tracedown/tracedown/internal/artifact"
	"github.com/tracedown/tracedown/internal/workspace"
)

var (
	errKindRequired   = errors.New("artifact kind is required")
	errTitleRequired  = errors.New("title is required")
	errBatchTooSmall  = errors.New("--batch must be at least 1")
	errBatchUnusable  = errors.New("--batch is only valid for numbered kinds")
	errKindNotCreated = errors.New("kind cannot be created with new")
)

const newHelp = `  new <kind> [title]      Create an artifact, prints its ID
    -b, --body              Markdown body text
    --batch N               Reserve and create N artifacts at once
    --no-commit             Write the file without committing
    --sync                  Pull/push counter state around allocation`

func cmdNew(ctx context.Context, o *IO, sess *session, args []string) error {
	flagSet := flag.NewFlagSet("new", flag.ContinueOnError)
	flagSet.SetOutput(&strings.Builder{})

	body := flagSet.StringP("body", "b", "", "Markdown body text")
	batch := flagSet.Int("batch", 1, "Create N artifacts at once")
	noCommit := flagSet.Bool("no-commit", false, "Write without committing")
	sync := flagSet.Bool("sync", false, "Pull/push counter state around allocation")

	if hasHelpFlag(args) {
		o.Println("Usage: tracedown new <kind> [title] [options]")
		o.Println("")
		o.Println("Create one artifact and print its ID. Kinds: requirement, usecase,")
		o.Println("testcase, info, risk, user, project. Links are created with")
		o.Println("'tracedown link'. When the title is omitted you are prompted for one.")

		return nil
	}

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if flagSet.NArg() == 0 {
		return errKindRequired
	}

	kind, err := artifact.ParseKind(flagSet.Arg(0))
	if err != nil {
		return err
	}

	if kind == artifact.KindLink {
		return fmt.Errorf("%w: use 'tracedown link'", errKindNotCreated)
	}

	if *batch < 1 {
		return errBatchTooSmall
	}

	if *batch > 1 {
		return createBatch(ctx, o, sess.ws, kind, *batch, *noCommit)
	}

	title := strings.TrimSpace(strings.Join(flagSet.Args()[1:], " "))
	if title == "" {
		title, err = promptLine(sess.in, o, "Title: ")
		if err != nil {
			return err
		}
	}

	if title == "" {
		return errTitleRequired
	}

	id, err := allocateID(ctx, sess.ws, kind, *sync)
	if err != nil {
		return err
	}

	message := commitMessage(*noCommit, "Create "+id+": "+title)

	saveErr := createArtifact(ctx, sess.ws, kind, id, title, *body, message)
	if saveErr != nil {
		return saveErr
	}

	o.Println(id)

	return nil
}

// createBatch reserves a contiguous ID block with one counter write and
// creates one untitled artifact per ID.
func createBatch(ctx context.Context, o *IO, ws *workspace.Workspace, kind artifact.Kind, n int, noCommit bool) error {
	if !kind.Numbered() {
		return fmt.Errorf("%w: %s", errBatchUnusable, kind)
	}

	ids, err := ws.Counters.NextIDs(kind, n)
	if err != nil {
		return err
	}

	for _, id := range ids {
		message := commitMessage(noCommit, "Create "+id)

		saveErr := createArtifact(ctx, ws, kind, id, "", "", message)
		if saveErr != nil {
			return saveErr
		}

		o.Println(id)
	}

	return nil
}

func allocateID(ctx context.Context, ws *workspace.Workspace, kind artifact.Kind, sync bool) (string, error) {
	if kind == artifact.KindProject {
		return artifact.NewProjectID()
	}

	if sync {
		return ws.Counters.NextIDWithSync(ctx, kind)
	}

	return ws.Counters.NextID(kind)
}

func commitMessage(noCommit bool, message string) string {
	if noCommit {
		return ""
	}

	return message
}

// createArtifact saves a fresh artifact of the given kind through its
// repository.
func createArtifact(ctx context.Context, ws *workspace.Workspace, kind artifact.Kind, id, title, body, message string) error {
	meta := artifact.NewMeta(id, title)

	switch kind {
	case artifact.KindRequirement:
		return ws.Requirements.Save(ctx, artifact.Requirement{Meta: meta, Status: "draft", Priority: "medium", Body: body}, message)
	case artifact.KindUseCase:
		return ws.UseCases.Save(ctx, artifact.UseCase{Meta: meta, Body: body}, message)
	case artifact.KindTestCase:
		return ws.TestCases.Save(ctx, artifact.TestCase{Meta: meta, Body: body}, message)
	case artifact.KindInformation:
		return ws.Information.Save(ctx, artifact.Information{Meta: meta, Body: body}, message)
	case artifact.KindRisk:
		return ws.Risks.Save(ctx, artifact.Risk{Meta: meta, Body: body}, message)
	case artifact.KindUser:
		return ws.Users.Save(ctx, artifact.User{Meta: meta, Name: title, Body: body}, message)
	case artifact.KindProject:
		return ws.Projects.Save(ctx, artifact.Project{Meta: meta, Body: body}, message)
	case artifact.KindLink:
		return fmt.Errorf("%w: %s", errKindNotCreated, kind)
	default:
		return fmt.Errorf("%w: %s", errKindNotCreated, kind)
	}
}

// promptLine reads one line interactively. Plain runs read from stdin; the
// shell passes the remainder of the REPL line instead.
func promptLine(in io.Reader, o *IO, prompt string) (string, error) {
	o.Printf("%s", prompt)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		scanErr := scanner.Err()
		if scanErr != nil {
			return "", scanErr
		}

		return "", nil
	}

	return strings.TrimSpace(scanner.Text()), nil
}
