package iconfolio

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/iconfolio/pkg/errors"
	"github.com/arthur-debert/iconfolio/pkg/session"
	"github.com/arthur-debert/iconfolio/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMenuCommand(t *testing.T) {
	tests := []struct {
		input   string
		want    menuCommand
		wantErr bool
	}{
		{"0", menuExit, false},
		{"1", menuCleanup, false},
		{" 4 ", menuApply, false},
		{"9", menuRefresh, false},
		{"10", 0, true},
		{"-1", 0, true},
		{"x", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseMenuCommand(tt.input)
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidCommand))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMenuTableCoversEveryKey(t *testing.T) {
	for c := menuExit; c <= menuLast; c++ {
		e, ok := lookupMenuEntry(c)
		require.True(t, ok, "no entry for %d", c)
		if c != menuExit {
			assert.NotNil(t, e.run, "entry %d has no action", c)
		}
	}
	assert.Equal(t, "4 (Write markers for every configured folder)", menuApply.String())
}

func TestRenderMenu(t *testing.T) {
	out := renderMenu(`C:\Tools`)

	assert.Contains(t, out, `Operating directory: C:\Tools`)
	for _, e := range menuTable {
		if e.label != "" {
			assert.Contains(t, out, e.label)
		}
	}
	assert.Contains(t, out, menuNotes[0])
}

func TestMenuExit(t *testing.T) {
	h := newHarness(t, testutil.ScenarioTree())

	out, err := h.run(t, "0\n", "--dir", h.root)

	require.NoError(t, err)
	assert.Contains(t, out, "Operating directory: "+h.root)
	assert.Contains(t, out, MsgMenuBye)
}

func TestMenuEndOfInput(t *testing.T) {
	h := newHarness(t, testutil.ScenarioTree())

	out, err := h.run(t, "", "--dir", h.root)

	require.NoError(t, err)
	assert.NotContains(t, out, MsgMenuBye)
}

func TestMenuChoosesCurrentDirectory(t *testing.T) {
	h := newHarness(t, testutil.ScenarioTree())

	out, err := h.run(t, "1\n0\n")

	require.NoError(t, err)
	assert.Contains(t, out, "Select the operating directory")
	assert.Contains(t, out, "Operating directory: "+h.root)
}

func TestMenuWithoutDirectory(t *testing.T) {
	h := newHarness(t, testutil.ScenarioTree())

	_, err := h.run(t, "")

	assert.True(t, errors.IsErrorCode(err, errors.ErrNoOperatingDir))
}

func TestMenuInvalidChoiceContinues(t *testing.T) {
	h := newHarness(t, testutil.ScenarioTree())

	out, err := h.run(t, "x\n\n0\n", "--dir", h.root)

	require.NoError(t, err)
	assert.Contains(t, out, "INVALID_COMMAND")
	assert.Contains(t, out, MsgMenuInvalid)
	assert.Contains(t, out, MsgMenuBye)
}

func TestMenuFailingEntryContinues(t *testing.T) {
	h := newHarness(t, testutil.ScenarioTree())

	// 3 needs folders.txt, which does not exist yet
	out, err := h.run(t, "3\n\n0\n", "--dir", h.root)

	require.NoError(t, err)
	assert.Contains(t, out, "CONFIG_MISSING")
	assert.Contains(t, out, MsgMenuBye)
	assert.Empty(t, h.shell.CallsWithPrefix("open"))
}

func TestMenuWorkflow(t *testing.T) {
	h := newHarness(t, testutil.ScenarioTree())

	// generate, write markers, check status, then exit
	out, err := h.run(t, "7\n\n4\n\n5\n\n0\n", "--dir", h.root)

	require.NoError(t, err)
	assert.True(t, testutil.FileExists(t, filepath.Join(h.root, "folders.txt")))
	assert.True(t, testutil.FileExists(t, filepath.Join(h.root, "A", "desktop.ini")))
	assert.Contains(t, out, "1 of 1 folders decorated")
	assert.Contains(t, out, MsgStatusHint)
	assert.Contains(t, out, MsgMenuBye)
}

func TestMenuEditOpensConfig(t *testing.T) {
	h := newHarness(t, testutil.ScenarioTree())
	_, err := h.run(t, "", "generate")
	require.NoError(t, err)

	out, err := h.run(t, "3\n\n0\n", "--dir", h.root)

	require.NoError(t, err)
	path := filepath.Join(h.root, "folders.txt")
	assert.Contains(t, h.shell.Calls(), "open "+path)
	assert.Contains(t, out, "gbk")
}

func TestMenuCleanupAsks(t *testing.T) {
	h := newHarness(t, testutil.ScenarioTree())
	_, err := h.run(t, "", "generate")
	require.NoError(t, err)
	_, err = h.run(t, "", "apply")
	require.NoError(t, err)

	out, err := h.run(t, "1\nn\n\n0\n", "--dir", h.root)

	require.NoError(t, err)
	assert.Contains(t, out, MsgCancelled)
	assert.True(t, testutil.FileExists(t, filepath.Join(h.root, "A", "desktop.ini")))
}

func TestDispatchRecoversPanic(t *testing.T) {
	h := newHarness(t, testutil.ScenarioTree())
	a := &app{env: h.env("").withDefaults()}
	s, err := session.New(a.sessionOptions(h.root))
	require.NoError(t, err)

	saved := menuTable
	t.Cleanup(func() { menuTable = saved })
	menuTable = []menuEntry{
		{cmd: menuReseat, label: "boom", run: func(*app, *session.Session) error {
			panic("kaboom")
		}},
		{cmd: menuExit, label: "Exit"},
	}

	exit, err := a.dispatch(s, "6")
	assert.False(t, exit)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
	assert.Contains(t, err.Error(), "kaboom")

	exit, err = a.dispatch(s, "0")
	assert.True(t, exit)
	assert.NoError(t, err)

	_, err = a.dispatch(s, "2")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidCommand))
}
