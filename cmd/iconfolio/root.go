// Package iconfolio wires the iconfolio command line: the cobra commands,
// the interactive menu and the user guide.
package iconfolio

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arthur-debert/iconfolio/internal/version"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/filesystem"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/arthur-debert/iconfolio/pkg/platform"
	"github.com/arthur-debert/iconfolio/pkg/prompt"
	"github.com/arthur-debert/iconfolio/pkg/session"
	"github.com/arthur-debert/iconfolio/pkg/style"
	"github.com/arthur-debert/iconfolio/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// annotationShell marks commands that drive the Windows shell
const annotationShell = "iconfolio/needs-shell"

// Env is what the commands take from the outside world. Zero values pick
// the process streams, the real filesystem and the real platform.
type Env struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Host   *platform.Host
	FS     types.FS
	Now    func() time.Time
	Sleep  func(time.Duration)
	Getenv func(string) string
	Getwd  func() (string, error)

	// SkipUserConfig and SkipEnv keep the user's own settings out (tests).
	SkipUserConfig bool
	SkipEnv        bool

	// LogFile overrides the log file; logging.FileOff disables it.
	LogFile string
}

func (e Env) withDefaults() Env {
	if e.In == nil {
		e.In = os.Stdin
	}
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.Err == nil {
		e.Err = os.Stderr
	}
	if e.Getwd == nil {
		e.Getwd = os.Getwd
	}
	return e
}

type globalFlags struct {
	verbosity int
	dir       string
	config    string
	encoding  string
	yes       bool
}

// app holds the state shared by the commands of one invocation
type app struct {
	env      Env
	flags    globalFlags
	format   style.Format
	prompter *prompt.Prompter
}

// NewRootCmd creates the root command for the current process
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithEnv(Env{})
}

// NewRootCmdWithEnv creates the root command around env
func NewRootCmdWithEnv(env Env) *cobra.Command {
	initTemplateFormatting()

	a := &app{env: env.withDefaults()}

	rootCmd := &cobra.Command{
		Use:         "iconfolio",
		Short:       MsgRootShort,
		Long:        MsgRootLong,
		Version:     version.Version,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationShell: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(logging.Options{
				Verbosity: a.flags.verbosity,
				Console:   a.env.Err,
				File:      a.env.LogFile,
			})
			logging.LogCommand(cmd.CommandPath(), args)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			a.format = a.outputFormat()
			style.Configure(a.format)

			if cmd.Annotations[annotationShell] == "true" && a.env.Host == nil && !platform.Supported() {
				return platform.ErrUnsupported
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu()
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.SetIn(a.env.In)
	rootCmd.SetOut(a.env.Out)
	rootCmd.SetErr(a.env.Err)

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&a.flags.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVarP(&a.flags.dir, "dir", "d", "", MsgFlagDir)
	pf.StringVar(&a.flags.config, "config", "", MsgFlagConfig)
	pf.StringVar(&a.flags.encoding, "encoding", "", MsgFlagEncoding)
	pf.BoolVarP(&a.flags.yes, "yes", "y", false, MsgFlagYes)

	rootCmd.AddGroup(&cobra.Group{ID: "config", Title: "CONFIGURATION:"})
	rootCmd.AddGroup(&cobra.Group{ID: "markers", Title: "MARKERS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "shell", Title: "SHELL:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(a.newGenerateCmd())
	rootCmd.AddCommand(a.newUpdateCmd())
	rootCmd.AddCommand(a.newEditCmd())
	rootCmd.AddCommand(a.newApplyCmd())
	rootCmd.AddCommand(a.newReseatCmd())
	rootCmd.AddCommand(a.newWatchCmd())
	rootCmd.AddCommand(a.newCleanupCmd())
	rootCmd.AddCommand(a.newRefreshCmd())
	rootCmd.AddCommand(a.newRebuildCmd())
	rootCmd.AddCommand(a.newStatusCmd())
	rootCmd.AddCommand(a.newSettingsCmd())
	rootCmd.AddCommand(a.newGuideCmd())
	rootCmd.AddCommand(a.newVersionCmd())
	rootCmd.AddCommand(a.newCompletionCmd())
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

// outputFormat styles output only when it goes straight to a terminal
func (a *app) outputFormat() style.Format {
	if f, ok := a.env.Out.(*os.File); ok {
		return style.Resolve(style.FormatAuto, f)
	}
	return style.FormatText
}

func (a *app) fs() types.FS {
	if a.env.FS == nil {
		return filesystem.NewOS()
	}
	return a.env.FS
}

func (a *app) renderer() style.Renderer {
	return style.NewRenderer(a.format)
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.env.Out, format, args...)
}

func (a *app) println(args ...interface{}) {
	fmt.Fprintln(a.env.Out, args...)
}

// prompt returns the invocation's prompter; it owns the buffered input, so
// there is only ever one
func (a *app) prompt() *prompt.Prompter {
	if a.prompter == nil {
		a.prompter = prompt.New(a.env.In, a.env.Out)
	}
	return a.prompter
}

// confirm asks a y/n question unless --yes was given. Running out of input
// counts as no.
func (a *app) confirm(question string) (bool, error) {
	if a.flags.yes {
		return true, nil
	}
	ok, err := a.prompt().Confirm(question, false)
	if stderrors.Is(err, io.EOF) {
		return false, nil
	}
	return ok, err
}

// overrides turns flags into settings keys
func (a *app) overrides() map[string]interface{} {
	if a.flags.encoding == "" {
		return nil
	}
	return map[string]interface{}{"encoding.name": a.flags.encoding}
}

// workingRoot is --dir, or the current directory
func (a *app) workingRoot() (string, error) {
	if a.flags.dir != "" {
		return a.flags.dir, nil
	}
	cwd, err := a.env.Getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNoOperatingDir, "cannot determine the current directory")
	}
	return cwd, nil
}

func (a *app) sessionOptions(root string) session.Options {
	return session.Options{
		Root:           root,
		SettingsFile:   a.flags.config,
		Overrides:      a.overrides(),
		SkipUserConfig: a.env.SkipUserConfig,
		SkipEnv:        a.env.SkipEnv,
		FS:             a.env.FS,
		Host:           a.env.Host,
		Now:            a.env.Now,
		Sleep:          a.env.Sleep,
		Getenv:         a.env.Getenv,
	}
}

// openSession starts a session on the working root
func (a *app) openSession() (*session.Session, error) {
	root, err := a.workingRoot()
	if err != nil {
		return nil, err
	}
	return session.New(a.sessionOptions(root))
}
