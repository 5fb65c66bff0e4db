package iconfolio

import (
	"os"
	"os/signal"

	"github.com/arthur-debert/iconfolio/internal/version"
	"github.com/arthur-debert/iconfolio/pkg/config"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/session"
	"github.com/arthur-debert/iconfolio/pkg/style"
	"github.com/spf13/cobra"
)

// shellCommand marks cmd as needing the Windows shell and runs fn on a
// fresh session
func (a *app) shellCommand(cmd *cobra.Command, fn func(cmd *cobra.Command, s *session.Session, args []string) error) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationShell] = "true"
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := a.openSession()
		if err != nil {
			return err
		}
		return fn(cmd, s, args)
	}
	return cmd
}

func (a *app) newGenerateCmd() *cobra.Command {
	var interactive bool
	cmd := a.shellCommand(&cobra.Command{
		Use:     "generate",
		Short:   MsgGenerateShort,
		Long:    MsgGenerateLong,
		Example: MsgGenerateExample,
		Args:    cobra.NoArgs,
		GroupID: "config",
	}, func(cmd *cobra.Command, s *session.Session, args []string) error {
		return a.generate(s, interactive)
	})
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, MsgFlagInteractive)
	return cmd
}

func (a *app) newUpdateCmd() *cobra.Command {
	return a.shellCommand(&cobra.Command{
		Use:     "update",
		Short:   MsgUpdateShort,
		Long:    MsgUpdateLong,
		Args:    cobra.NoArgs,
		GroupID: "config",
	}, func(cmd *cobra.Command, s *session.Session, args []string) error {
		return a.update(s)
	})
}

func (a *app) newEditCmd() *cobra.Command {
	var alias, icon string
	cmd := a.shellCommand(&cobra.Command{
		Use:     "edit <folder>",
		Short:   MsgEditShort,
		Long:    MsgEditLong,
		Example: MsgEditExample,
		Args:    cobra.ExactArgs(1),
		GroupID: "config",
	}, func(cmd *cobra.Command, s *session.Session, args []string) error {
		return a.edit(s, args[0], alias, icon)
	})
	cmd.Flags().StringVarP(&alias, "alias", "a", "", MsgFlagAlias)
	cmd.Flags().StringVarP(&icon, "icon", "i", "", MsgFlagIcon)
	return cmd
}

func (a *app) newApplyCmd() *cobra.Command {
	var force, noRefresh bool
	cmd := a.shellCommand(&cobra.Command{
		Use:     "apply",
		Short:   MsgApplyShort,
		Long:    MsgApplyLong,
		Args:    cobra.NoArgs,
		GroupID: "markers",
	}, func(cmd *cobra.Command, s *session.Session, args []string) error {
		res, err := a.apply(s, force, !noRefresh)
		if err != nil {
			return err
		}
		if n := len(res.Failures); n > 0 {
			return errors.Newf(errors.ErrMarkerWrite, "%d of %d folders could not be decorated", n, res.Total)
		}
		return nil
	})
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVar(&noRefresh, "no-refresh", false, MsgFlagNoRefresh)
	return cmd
}

func (a *app) newWatchCmd() *cobra.Command {
	var noRefresh bool
	cmd := a.shellCommand(&cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		Args:    cobra.NoArgs,
		GroupID: "markers",
	}, func(cmd *cobra.Command, s *session.Session, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return a.watch(ctx, s, !noRefresh)
	})
	cmd.Flags().BoolVar(&noRefresh, "no-refresh", false, MsgFlagNoRefresh)
	return cmd
}

func (a *app) newReseatCmd() *cobra.Command {
	return a.shellCommand(&cobra.Command{
		Use:     "reseat",
		Short:   MsgReseatShort,
		Long:    MsgReseatLong,
		Args:    cobra.NoArgs,
		GroupID: "markers",
	}, func(cmd *cobra.Command, s *session.Session, args []string) error {
		return a.reseat(s)
	})
}

func (a *app) newCleanupCmd() *cobra.Command {
	var noRefresh bool
	cmd := a.shellCommand(&cobra.Command{
		Use:     "cleanup",
		Short:   MsgCleanupShort,
		Long:    MsgCleanupLong,
		Args:    cobra.NoArgs,
		GroupID: "markers",
	}, func(cmd *cobra.Command, s *session.Session, args []string) error {
		return a.cleanup(s, noRefresh)
	})
	cmd.Flags().BoolVar(&noRefresh, "no-refresh", false, MsgFlagNoRefresh)
	return cmd
}

func (a *app) newRefreshCmd() *cobra.Command {
	return a.shellCommand(&cobra.Command{
		Use:     "refresh",
		Short:   MsgRefreshShort,
		Long:    MsgRefreshLong,
		Args:    cobra.NoArgs,
		GroupID: "shell",
	}, func(cmd *cobra.Command, s *session.Session, args []string) error {
		return a.refreshAll(s)
	})
}

func (a *app) newRebuildCmd() *cobra.Command {
	return a.shellCommand(&cobra.Command{
		Use:     "rebuild",
		Short:   MsgRebuildShort,
		Long:    MsgRebuildLong,
		Args:    cobra.NoArgs,
		GroupID: "shell",
	}, func(cmd *cobra.Command, s *session.Session, args []string) error {
		return a.rebuild(s)
	})
}

func (a *app) newStatusCmd() *cobra.Command {
	var format string
	cmd := a.shellCommand(&cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		Args:    cobra.NoArgs,
		GroupID: "markers",
	}, func(cmd *cobra.Command, s *session.Session, args []string) error {
		f, err := style.ParseFormat(format)
		if err != nil {
			return errors.Wrap(err, errors.ErrInvalidInput, MsgErrFormat)
		}
		return a.status(s, f)
	})
	cmd.Flags().StringVar(&format, "format", "", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// newSettingsCmd loads settings without a session: it neither needs the
// shell nor a valid operating directory
func (a *app) newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "settings",
		Short:   MsgSettingsShort,
		Long:    MsgSettingsLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.workingRoot()
			if err != nil {
				return err
			}
			if root, err = session.ResolveRoot(a.fs(), root); err != nil {
				return err
			}
			_, k, err := config.Load(config.LoadOptions{
				Root:           root,
				File:           a.flags.config,
				SkipUserConfig: a.env.SkipUserConfig,
				SkipEnv:        a.env.SkipEnv,
				Overrides:      a.overrides(),
			})
			if err != nil {
				return err
			}
			out, err := config.EffectiveTOML(k)
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "cannot render settings")
			}
			_, err = a.env.Out.Write(out)
			return err
		},
	}
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			a.printf(MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func (a *app) newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
