// Package marker renders the per-folder desktop.ini files the Windows shell
// reads to override a folder's display name and icon:
//
//	[.ShellClassInfo]
//	LocalizedResourceName=Alias
//	IconResource=C:\Apps\Tool\tool.exe,0
//
// Markers are derived data: they are always reproducible from the folder
// configuration. The filesystem is the only record of which folders carry
// one; nothing is cached between runs.
//
// A marker carries the hidden and system attributes, and its folder gets the
// system attribute so the shell honors the file. Existing markers are
// unlocked and backed up before being overwritten.
package marker
