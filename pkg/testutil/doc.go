// Package testutil provides helpers for testing iconfolio components.
//
// Tests run against real temporary directories; everything that touches the
// Windows shell goes through fakes so the suites run on any host.
//
// Key components:
//   - Tree: declarative folder trees (CreateTree, ScenarioTree, ToolsTree)
//   - FakeAttributes: in-memory attribute bitmasks with error injection
//   - FakeShell: records shell calls, behavior overridable per call
//   - FailingFS: wraps a types.FS and fails chosen operations
//   - Sleeper and FixedClock: deterministic time
package testutil
