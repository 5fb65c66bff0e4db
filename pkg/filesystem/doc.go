// Package filesystem provides filesystem implementations for iconfolio.
//
// This package contains the implementation of the types.FS interface backed
// by the operating system. Tests use it against temporary directories.
package filesystem
