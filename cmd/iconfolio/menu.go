package iconfolio

import (
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/iconfolio/internal/version"
	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/logging"
	"github.com/arthur-debert/iconfolio/pkg/prompt"
	"github.com/arthur-debert/iconfolio/pkg/session"
	"github.com/arthur-debert/iconfolio/pkg/style"
)

// menuCommand is a menu entry; its value is the key the user types
type menuCommand int

const (
	menuExit menuCommand = iota
	menuCleanup
	menuGenerateInteractive
	menuEditConfig
	menuApply
	menuStatus
	menuReseat
	menuGenerateAuto
	menuUpdate
	menuRefresh
)

// menuLast bounds the accepted keys
const menuLast = menuRefresh

func (c menuCommand) key() string {
	return strconv.Itoa(int(c))
}

type menuEntry struct {
	cmd   menuCommand
	label string
	warn  bool
	run   func(a *app, s *session.Session) error
}

// menuTable is every entry in display order. A zero entry is a spacer.
var menuTable = []menuEntry{
	{cmd: menuCleanup, label: "Remove all markers (desktop.ini) and backups", run: func(a *app, s *session.Session) error {
		return a.cleanup(s, false)
	}},
	{cmd: menuGenerateInteractive, label: "Generate folders.txt, choosing each executable", run: func(a *app, s *session.Session) error {
		return a.generate(s, true)
	}},
	{cmd: menuEditConfig, label: "Edit folders.txt by hand", warn: true, run: (*app).editConfig},
	{cmd: menuApply, label: "Write markers for every configured folder", run: func(a *app, s *session.Session) error {
		_, err := a.apply(s, false, true)
		return err
	}},
	{cmd: menuStatus, label: "Check status (aliases show up after a shell refresh, or use 9)", warn: true, run: func(a *app, s *session.Session) error {
		if err := a.status(s, style.FormatAuto); err != nil {
			return err
		}
		a.println(MsgStatusHint)
		return nil
	}},
	{cmd: menuReseat, label: "Move every marker out and back to refresh the cache", run: (*app).reseat},
	{},
	{cmd: menuGenerateAuto, label: "Generate folders.txt automatically [first executable]", run: func(a *app, s *session.Session) error {
		return a.generate(s, false)
	}},
	{cmd: menuUpdate, label: "Update folders.txt [new folders only]", run: (*app).update},
	{},
	{cmd: menuRefresh, label: "Refresh everything and rebuild the icon cache", warn: true, run: (*app).refreshAll},
	{},
	{cmd: menuExit, label: "Exit"},
}

var menuNotes = []string{
	"Recommended order: 1 > 9 > 2 > 3 > 4 > 5 > 6",
	"To rename a folder itself (not its alias), remove its marker with 1 first",
}

// parseMenuCommand maps typed input onto the closed set of entries
func parseMenuCommand(input string) (menuCommand, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < int(menuExit) || n > int(menuLast) {
		return 0, errors.Newf(errors.ErrInvalidCommand, "unknown menu choice %q", input).
			WithDetail("choice", input)
	}
	return menuCommand(n), nil
}

func lookupMenuEntry(cmd menuCommand) (menuEntry, bool) {
	for _, e := range menuTable {
		if e.cmd == cmd && e.label != "" {
			return e, true
		}
	}
	return menuEntry{}, false
}

func renderMenu(root string) string {
	items := make([]style.MenuItem, 0, len(menuTable))
	for _, e := range menuTable {
		if e.label == "" {
			items = append(items, style.MenuItem{})
			continue
		}
		items = append(items, style.MenuItem{Key: e.cmd.key(), Label: e.label, Warn: e.warn})
	}
	return style.RenderMenu(
		"iconfolio "+version.String(),
		"Operating directory: "+root,
		items,
		menuNotes,
	)
}

// runMenu picks the operating directory, then loops until exit or end of
// input. Failures of an entry are shown and the loop goes on.
func (a *app) runMenu() error {
	logger := logging.GetLogger("cmd.menu")
	p := a.prompt()

	root := a.flags.dir
	if root == "" {
		cwd, err := a.env.Getwd()
		if err != nil {
			return errors.Wrap(err, errors.ErrNoOperatingDir, "cannot determine the current directory")
		}
		root, err = p.ChooseDirectory(cwd, func(path string) error {
			_, err := session.ResolveRoot(a.fs(), path)
			return err
		})
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				return errors.New(errors.ErrNoOperatingDir, "no operating directory selected")
			}
			return err
		}
	}

	s, err := session.New(a.sessionOptions(root))
	if err != nil {
		return err
	}
	logger.Info().Str("root", s.Root).Msg("Menu started")

	for {
		p.Println()
		p.Println(renderMenu(s.Root))
		input, err := p.Line("\n" + MsgMenuChoice)
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		exit, err := a.dispatch(s, input)
		if exit {
			p.Println(MsgMenuBye)
			return nil
		}
		if err != nil {
			logger.Warn().Err(err).Str("choice", input).Msg("Menu entry failed")
			p.Println(a.renderer().RenderError(err))
			if errors.IsErrorCode(err, errors.ErrInvalidCommand) {
				p.Println(MsgMenuInvalid)
			}
		}

		if err := p.WaitKey(MsgPressSpace); err != nil {
			if stderrors.Is(err, prompt.ErrInterrupted) || stderrors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// dispatch runs one menu choice. A panicking entry is reported as an
// internal error so the loop survives it.
func (a *app) dispatch(s *session.Session, input string) (exit bool, err error) {
	cmd, err := parseMenuCommand(input)
	if err != nil {
		return false, err
	}
	if cmd == menuExit {
		return true, nil
	}
	entry, ok := lookupMenuEntry(cmd)
	if !ok || entry.run == nil {
		return false, errors.Newf(errors.ErrInvalidCommand, "menu entry %d has no action", cmd)
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrInternal, "%s failed: %v", entry.label, r)
		}
	}()
	logger := logging.GetLogger("cmd.menu")
	logger.Debug().Stringer("entry", cmd).Msg("Running menu entry")
	return false, entry.run(a, s)
}

// String names the entry in logs
func (c menuCommand) String() string {
	if e, ok := lookupMenuEntry(c); ok {
		return fmt.Sprintf("%d (%s)", int(c), e.label)
	}
	return c.key()
}
