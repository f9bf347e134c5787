// Package session ties the stopwatch core to the outside world.
//
// Key components:
//   - Session: single-writer wrapper serializing every mutation of the
//     engine and ledger, whether it arrives from the console, an HTTP
//     handler, or the tick source
//   - Store: codec translating snapshots to and from the storage.KV port
//
// Persistence is quiet. Mutations queue a save and move on; a background
// goroutine coalesces queued saves and writes the latest snapshot. Failed saves are logged, never surfaced to the operation that
// triggered them, and a broken store at load time degrades to a fresh
// session instead of refusing to start.
package session
