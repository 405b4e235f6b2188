// Package cli implements the tracedown command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tracedown/tracedown/internal/vcs"
	"github.com/tracedown/tracedown/internal/workspace"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

var (
	errFlagRequiresArg = errors.New("flag requires an argument")
	errUnknownFlag     = errors.New("unknown flag")
	errUnknownCommand  = errors.New("unknown command")
)

// session carries everything a command needs beyond its own flags.
type session struct {
	ws  *workspace.Workspace
	in  io.Reader
	env map[string]string
}

//nolint:gochecknoglobals // process-wide logger setup must run once
var logSetup sync.Once

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	logSetup.Do(func() {
		slog.SetDefault(slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelWarn})))
	})

	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return 1
		}
	}

	overrides := workspace.Config{WorkspaceDir: flags.workspaceDir, AuthorName: flags.author}

	cfg, sources, err := workspace.LoadConfig(workDir, flags.configPath, overrides, flags.hasDirOverride, env)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]
	if cmd == "-h" || cmd == helpFlag {
		printUsage(out)

		return 0
	}

	o := NewIO(out, errOut)

	if cmd == "print-config" {
		err = cmdPrintConfig(o, cfg, sources)
		if err != nil {
			fprintln(errOut, "error:", err)

			return 1
		}

		return o.Finish()
	}

	workspaceDir := cfg.WorkspaceDir
	if !filepath.IsAbs(workspaceDir) {
		workspaceDir = filepath.Join(workDir, workspaceDir)
	}

	ws, err := workspace.Open(workspaceDir, vcs.Author{Name: cfg.AuthorName, Email: cfg.AuthorEmail})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			<-sigCh
			cancel()
		}()
	}

	sess := &session{ws: ws, in: in, env: env}

	cmdErr := dispatch(ctx, o, sess, cmd, flags.remaining[1:])
	if cmdErr != nil {
		if errors.Is(cmdErr, errUnknownCommand) {
			fprintln(errOut, "error:", cmdErr)
			printUsage(errOut)
		} else {
			fprintln(errOut, "error:", cmdErr)
		}

		return 1
	}

	return o.Finish()
}

// dispatch routes one command. The shell reuses it for every line it reads.
func dispatch(ctx context.Context, o *IO, sess *session, cmd string, args []string) error {
	switch cmd {
	case "init":
		return cmdInit(ctx, o, sess.ws, args)
	case "new":
		return cmdNew(ctx, o, sess, args)
	case "ls":
		return cmdLs(o, sess.ws, args)
	case "show":
		return cmdShow(ctx, o, sess.ws, args)
	case "rm":
		return cmdRm(ctx, o, sess.ws, args)
	case "link":
		return cmdLink(ctx, o, sess.ws, args)
	case "status":
		return cmdStatus(ctx, o, sess.ws, args)
	case "history":
		return cmdHistory(ctx, o, sess.ws, args)
	case "repair":
		return cmdRepair(o, sess.ws, args)
	case "project":
		return cmdProject(o, sess.ws, args)
	case "user":
		return cmdUser(o, sess.ws, args)
	case "shell":
		return cmdShell(ctx, o, sess, args)
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}

type globalFlags struct {
	workDir        string
	configPath     string
	workspaceDir   string
	author         string
	hasDirOverride bool
	remaining      []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args
// consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	if arg == "-C" || arg == "--cwd" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	if arg == "--workspace-dir" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.workspaceDir = args[idx+1]
		flags.hasDirOverride = true

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--workspace-dir="); ok {
		flags.workspaceDir = after
		flags.hasDirOverride = true

		return consumedOne, nil
	}

	if arg == "--author" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.author = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--author="); ok {
		flags.author = after

		return consumedOne, nil
	}

	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", errUnknownFlag, arg)
	}

	return consumedNone, nil
}

func cmdPrintConfig(o *IO, cfg workspace.Config, sources workspace.ConfigSources) error {
	formatted, err := workspace.FormatConfig(cfg)
	if err != nil {
		return err
	}

	o.Println(formatted)
	o.Println("")
	o.Println("# Sources:")

	if sources.Global != "" {
		o.Println("#   global:", sources.Global)
	}

	if sources.Project != "" {
		o.Println("#   workspace:", sources.Project)
	}

	if sources.Global == "" && sources.Project == "" {
		o.Println("#   (using defaults only)")
	}

	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == helpFlag {
			return true
		}
	}

	return false
}

func printUsage(writer io.Writer) {
	fprintln(writer, `tracedown - git-backed requirements traceability

Usage: tracedown [options] <command> [args]

Options:
  -C, --cwd <dir>         Run as if started in <dir>
  -c, --config <file>     Use specified config file
  --workspace-dir <dir>   Override the workspace directory
  --author <name>         Override the commit author name

Commands:`)
	fprintln(writer, initHelp)
	fprintln(writer, newHelp)
	fprintln(writer, lsHelp)
	fprintln(writer, showHelp)
	fprintln(writer, rmHelp)
	fprintln(writer, linkHelp)
	fprintln(writer, statusHelp)
	fprintln(writer, historyHelp)
	fprintln(writer, repairHelp)
	fprintln(writer, projectHelp)
	fprintln(writer, userHelp)
	fprintln(writer, shellHelp)
	fprintln(writer, `  print-config            Show resolved configuration`)
}
