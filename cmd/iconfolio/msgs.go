package iconfolio

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Give folders an alias and an executable's icon"
	MsgGenerateShort   = "Generate folders.txt from the folders found"
	MsgUpdateShort     = "Add new folders to folders.txt"
	MsgEditShort       = "Set the alias or icon of one folder"
	MsgApplyShort      = "Write desktop.ini markers from folders.txt"
	MsgReseatShort     = "Move markers out and back to refresh the shell"
	MsgCleanupShort    = "Remove all markers and their backups"
	MsgRefreshShort    = "Refresh every folder and rebuild the icon cache"
	MsgRebuildShort    = "Restart the shell with an empty icon cache"
	MsgStatusShort     = "Show the decoration state of every folder"
	MsgWatchShort      = "Keep markers in sync with folders.txt"
	MsgSettingsShort   = "Print the effective settings"
	MsgGuideShort      = "Read the user guide"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDir         = "Operating directory (default: current directory, or asked in the menu)"
	MsgFlagConfig      = "Settings file to load on top of the defaults"
	MsgFlagEncoding    = "Encoding of folders.txt (default: the system code page)"
	MsgFlagYes         = "Answer yes to every confirmation"
	MsgFlagInteractive = "Choose the executable of every folder"
	MsgFlagAlias       = "Display alias of the folder"
	MsgFlagIcon        = "Executable, relative to the folder, that provides the icon"
	MsgFlagForce       = "Replace existing markers (they are backed up first)"
	MsgFlagNoRefresh   = "Do not notify the shell afterwards"
	MsgFlagFormat      = "Output format: text, json or yaml (default: text, colored on a terminal)"

	// Prompts and notices
	MsgConfirmCleanup   = "Remove every desktop.ini and backup below %s?"
	MsgConfirmOverwrite = "%s exists and will be replaced (a backup is kept). Continue?"
	MsgCancelled        = "Cancelled."
	MsgPressSpace       = "Press space to continue..."
	MsgMenuChoice       = "Choose an operation (0-9): "
	MsgMenuInvalid      = "Please enter a number between 0 and 9."
	MsgMenuBye          = "Bye."
	MsgEditHint         = "Edit %s, save it in %s and come back to apply it."
	MsgOpenFailed       = "Could not open it automatically: %v"
	MsgStatusHint       = "Stale folders usually catch up after a while; use 9 to force it."
	MsgVersionFormat    = "iconfolio version %s\n  commit: %s\n  built:  %s\n"
	MsgWatching         = "Watching %s for changes, press Ctrl+C to stop."
	MsgInSync           = "Every marker matches folders.txt."

	// Error messages
	MsgErrNoAliasOrIcon = "nothing to change: give --alias and/or --icon"
	MsgErrNoCandidate   = "no executable found in %s, give --icon"
	MsgErrFormat        = "invalid --format value"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/generate-long.txt
	msgGenerateLongRaw string
	MsgGenerateLong    = strings.TrimSpace(msgGenerateLongRaw)

	//go:embed msgs/generate-example.txt
	msgGenerateExampleRaw string
	MsgGenerateExample    = strings.TrimRight(msgGenerateExampleRaw, "\n")

	//go:embed msgs/update-long.txt
	msgUpdateLongRaw string
	MsgUpdateLong    = strings.TrimSpace(msgUpdateLongRaw)

	//go:embed msgs/edit-long.txt
	msgEditLongRaw string
	MsgEditLong    = strings.TrimSpace(msgEditLongRaw)

	//go:embed msgs/edit-example.txt
	msgEditExampleRaw string
	MsgEditExample    = strings.TrimRight(msgEditExampleRaw, "\n")

	//go:embed msgs/apply-long.txt
	msgApplyLongRaw string
	MsgApplyLong    = strings.TrimSpace(msgApplyLongRaw)

	//go:embed msgs/reseat-long.txt
	msgReseatLongRaw string
	MsgReseatLong    = strings.TrimSpace(msgReseatLongRaw)

	//go:embed msgs/cleanup-long.txt
	msgCleanupLongRaw string
	MsgCleanupLong    = strings.TrimSpace(msgCleanupLongRaw)

	//go:embed msgs/refresh-long.txt
	msgRefreshLongRaw string
	MsgRefreshLong    = strings.TrimSpace(msgRefreshLongRaw)

	//go:embed msgs/rebuild-long.txt
	msgRebuildLongRaw string
	MsgRebuildLong    = strings.TrimSpace(msgRebuildLongRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/status-example.txt
	msgStatusExampleRaw string
	MsgStatusExample    = strings.TrimRight(msgStatusExampleRaw, "\n")

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/settings-long.txt
	msgSettingsLongRaw string
	MsgSettingsLong    = strings.TrimSpace(msgSettingsLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
