// Package refresh coerces the Windows shell into showing changed folder
// customizations.
//
// The shell caches icons and folder metadata aggressively and never says
// when a cached entry has been re-read. The orchestrator therefore works in
// escalating, best-effort steps:
//
// Per folder (RefreshFolder):
//
//  1. change notification for the folder
//  2. the folder gets the SYSTEM attribute for the duration of the attempt
//  3. up to N attempts, each running the tiers in order until one succeeds:
//     icon lookup (can confirm), attribute toggle and scratch-file touch
//     (can only act)
//  4. the original attribute bitmask is restored, whatever the tiers did
//  5. change notification again
//
// The result separates structural success (the attribute bracket held) from
// the cache state, which is Confirmed, Unknown or Failed.
//
// Whole tree (Rebuild): kill the shell, delete the icon cache files,
// relaunch the shell, run the icon cache utility and reopen the root. The
// shell is relaunched on every exit path.
//
// RefreshAll runs the per-folder pass over every folder of the root and then
// always rebuilds, even when every folder reported success.
package refresh
