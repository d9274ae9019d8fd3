// Package fsatomic provides the two primitives every piece of shared voxhook
// state is built on: atomic file replacement and scoped cross-process locks.
//
// voxhook has no daemon. Each hook event spawns an independent process, and
// any number of them may run at once, so the cache index, the history log,
// and the audio device are all coordinated the same way: acquire an exclusive
// advisory lock on a well-known path, perform one read-modify-write, publish
// the result with a rename, release the lock. The kernel drops advisory locks
// when the holder dies, so a crashed invocation can never wedge the next one.
package fsatomic
