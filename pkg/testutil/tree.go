package testutil

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Tree describes folder contents for declarative test setup. Keys are
// slash-separated paths relative to the root; a key ending in "/" is an
// empty directory, anything else a file with the given content.
type Tree map[string]string

// CreateTree materializes tree under root and returns root
func CreateTree(t *testing.T, root string, tree Tree) string {
	t.Helper()

	keys := make([]string, 0, len(tree))
	for k := range tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if strings.HasSuffix(k, "/") {
			CreateDir(t, root, filepath.FromSlash(strings.TrimSuffix(k, "/")))
			continue
		}
		CreateFile(t, root, filepath.FromSlash(k), tree[k])
	}
	return root
}

// ScenarioTree is the three-folder layout used across suites: A holds a
// usable executable, B only an excluded one, C nothing.
func ScenarioTree() Tree {
	return Tree{
		"A/app.exe":             "MZ",
		"B/setup_uninstall.exe": "MZ",
		"C/":                    "",
	}
}

// ToolsTree is a root with several decorated-looking program folders
func ToolsTree() Tree {
	return Tree{
		"Editor/editor.exe":            "MZ",
		"Editor/unins000.exe":          "MZ",
		"Player/bin/player.exe":        "MZ",
		"Player/bin/player-helper.exe": "MZ",
		"Player/readme.txt":            "read me",
		"Archiver/Archiver.EXE":        "MZ",
		".hidden/tool.exe":             "MZ",
	}
}
