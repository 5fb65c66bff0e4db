// Package platform is the boundary to the host operating system: file
// attribute bitmasks, shell change notifications, icon lookups and the
// shell process itself. Only Windows provides a real implementation; other
// hosts get ErrUnsupported from New.
package platform

import (
	"runtime"

	"github.com/arthur-debert/iconfolio/pkg/errors"
)

// File attribute bits as stored by the filesystem
const (
	AttrReadOnly  uint32 = 0x1
	AttrHidden    uint32 = 0x2
	AttrSystem    uint32 = 0x4
	AttrDirectory uint32 = 0x10
	AttrArchive   uint32 = 0x20
	AttrNormal    uint32 = 0x80
)

// AttrVisibility is the set cleared before a marker can be rewritten or removed
const AttrVisibility = AttrReadOnly | AttrHidden | AttrSystem

// Attributes reads and writes a path's attribute bitmask
type Attributes interface {
	Get(path string) (uint32, error)
	Set(path string, attrs uint32) error
}

// Shell is the desktop shell and the processes around it
type Shell interface {
	// NotifyUpdateDir broadcasts that a directory's contents changed.
	NotifyUpdateDir(path string)
	// NotifyAssocChanged broadcasts that file associations (and icons) changed.
	NotifyAssocChanged()
	// LookupIcon asks the shell for the icon of path, releasing any handle it
	// gets back. It reports whether the lookup produced a usable result.
	LookupIcon(path string, large bool) (bool, error)
	// ForceSystemAttribute marks path as system through the attrib utility.
	ForceSystemAttribute(path string) error
	// Terminate force-kills every process with the given image name.
	Terminate(image string) error
	// Launch starts a detached process.
	Launch(name string, args ...string) error
	// Run runs a command to completion with a hidden window.
	Run(name string, args ...string) error
	// Open shows path in a new shell window.
	Open(path string) error
}

// Host bundles the platform handles a session needs
type Host struct {
	Attributes     Attributes
	Shell          Shell
	ActiveCodePage func() (uint32, error)
}

// Supported reports whether this build can decorate folders
func Supported() bool {
	return runtime.GOOS == "windows"
}

// ErrUnsupported is returned by New on hosts without a shell implementation
var ErrUnsupported = errors.Newf(errors.ErrUnsupportedPlatform,
	"folder decoration requires the Windows shell, this host is %s", runtime.GOOS)

// New returns the host implementation for this build
func New() (*Host, error) {
	return newHost()
}
