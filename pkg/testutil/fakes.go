package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/iconfolio/pkg/platform"
)

// FakeAttributes keeps attribute bitmasks in memory. Paths never set fall
// back to DIRECTORY or ARCHIVE depending on what exists on disk.
type FakeAttributes struct {
	mu      sync.Mutex
	attrs   map[string]uint32
	history map[string][]uint32

	// GetFunc and SetFunc, when set, run before the default behavior; a
	// non-nil error is returned without touching state.
	GetFunc func(path string) error
	SetFunc func(path string, attrs uint32) error
}

// NewFakeAttributes creates an empty attribute store
func NewFakeAttributes() *FakeAttributes {
	return &FakeAttributes{
		attrs:   make(map[string]uint32),
		history: make(map[string][]uint32),
	}
}

func (f *FakeAttributes) Get(path string) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path = filepath.Clean(path)
	if f.GetFunc != nil {
		if err := f.GetFunc(path); err != nil {
			return 0, err
		}
	}
	if a, ok := f.attrs[path]; ok {
		return a, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return platform.AttrDirectory, nil
	}
	return platform.AttrArchive, nil
}

func (f *FakeAttributes) Set(path string, attrs uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path = filepath.Clean(path)
	if f.SetFunc != nil {
		if err := f.SetFunc(path, attrs); err != nil {
			return err
		}
	}
	f.attrs[path] = attrs
	f.history[path] = append(f.history[path], attrs)
	return nil
}

// Preset stores a bitmask without recording it in the history
func (f *FakeAttributes) Preset(path string, attrs uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attrs[filepath.Clean(path)] = attrs
}

// Value returns the current bitmask, or false when never set
func (f *FakeAttributes) Value(path string) (uint32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attrs[filepath.Clean(path)]
	return a, ok
}

// History returns every bitmask written to path, in order
func (f *FakeAttributes) History(path string) []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint32(nil), f.history[filepath.Clean(path)]...)
}

// FakeShell records every shell interaction as a short call string such as
// "launch explorer.exe" or "updatedir C:\root\A".
type FakeShell struct {
	mu    sync.Mutex
	calls []string

	LookupIconFunc  func(path string, large bool) (bool, error)
	ForceSystemFunc func(path string) error
	TerminateFunc   func(image string) error
	LaunchFunc      func(name string, args ...string) error
	RunFunc         func(name string, args ...string) error
	OpenFunc        func(path string) error
}

// NewFakeShell returns a shell on which every call succeeds
func NewFakeShell() *FakeShell {
	return &FakeShell{}
}

func (s *FakeShell) record(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

// Calls returns the recorded calls in order
func (s *FakeShell) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallsWithPrefix returns the recorded calls starting with prefix
func (s *FakeShell) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range s.Calls() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (s *FakeShell) NotifyUpdateDir(path string) {
	s.record("updatedir %s", path)
}

func (s *FakeShell) NotifyAssocChanged() {
	s.record("assocchanged")
}

func (s *FakeShell) LookupIcon(path string, large bool) (bool, error) {
	size := "small"
	if large {
		size = "large"
	}
	s.record("lookup-%s %s", size, path)
	if s.LookupIconFunc != nil {
		return s.LookupIconFunc(path, large)
	}
	return true, nil
}

func (s *FakeShell) ForceSystemAttribute(path string) error {
	s.record("attrib +s %s", path)
	if s.ForceSystemFunc != nil {
		return s.ForceSystemFunc(path)
	}
	return nil
}

func (s *FakeShell) Terminate(image string) error {
	s.record("terminate %s", image)
	if s.TerminateFunc != nil {
		return s.TerminateFunc(image)
	}
	return nil
}

func (s *FakeShell) Launch(name string, args ...string) error {
	s.record("launch %s", strings.TrimSpace(name+" "+strings.Join(args, " ")))
	if s.LaunchFunc != nil {
		return s.LaunchFunc(name, args...)
	}
	return nil
}

func (s *FakeShell) Run(name string, args ...string) error {
	s.record("run %s", strings.TrimSpace(name+" "+strings.Join(args, " ")))
	if s.RunFunc != nil {
		return s.RunFunc(name, args...)
	}
	return nil
}

func (s *FakeShell) Open(path string) error {
	s.record("open %s", path)
	if s.OpenFunc != nil {
		return s.OpenFunc(path)
	}
	return nil
}

// Sleeper records requested delays instead of sleeping
type Sleeper struct {
	mu        sync.Mutex
	durations []time.Duration
}

// Sleep records d
func (s *Sleeper) Sleep(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durations = append(s.durations, d)
}

// Durations returns the recorded delays
func (s *Sleeper) Durations() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.durations...)
}

// Total returns the sum of recorded delays
func (s *Sleeper) Total() time.Duration {
	var total time.Duration
	for _, d := range s.Durations() {
		total += d
	}
	return total
}

// FixedClock returns a clock frozen at t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TickingClock returns a clock that advances by step on every call
func TickingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current := now
		now = now.Add(step)
		return current
	}
}
