// Package cleanup removes folder decorations from a tree: every marker file
// and every marker backup below the root, together with the attributes the
// marker generator put on the folders.
package cleanup
