// Package folderconfig owns the folder configuration file (folders.txt by
// default): an INI-style document with one section per decorated folder.
//
//	# comment lines start with '#'
//	[Folder Name]
//	LocalizedResourceName=Alias shown by the shell
//	IconResource=bin\app.exe
//
// The file is read and written in the session's legacy encoding with CRLF
// line endings. Every destructive write is preceded by a timestamped backup.
//
// Entries are produced by discovery: a folder with no candidate executable is
// omitted, a single candidate is taken as-is and several are resolved by a
// Selector, which may also skip the folder.
package folderconfig
