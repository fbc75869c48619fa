// Package device provides the persistent Wake-on-LAN device registry.
//
// Devices are keyed by name and stored in a single JSON file on disk. The
// file is the source of truth: every read reloads it, so concurrent edits
// to the file from outside the process are reflected on the next request.
// The in-memory map is only a last-known-good copy, retained when a write
// to the backing file fails.
//
// All operations on a Store serialise through one mutex, guarding the
// load/mutate/save sequence as a single critical section so concurrent
// HTTP handlers cannot interleave writes and corrupt the file.
//
// If multiple processes write the same backing file, the last writer wins;
// there is no cross-process locking. Known limitation.
package device
