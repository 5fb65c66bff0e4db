// Package types defines the core types and interfaces used throughout iconfolio.
// This includes the folder configuration model (FolderEntry, Configuration),
// the refresh outcome model reported by the cache orchestrator, and the FS
// interface every component performs file I/O through.
package types
