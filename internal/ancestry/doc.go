// Package ancestry picks a representative owner for a process by walking
// its parent chain.
//
// Two policies:
//   - Deep: climb to the topmost ancestor below init and return its owner.
//   - Shallow: climb while ownership stays the same and return the owner of
//     the first ancestor whose owner differs from its child's.
//
// A node is terminal when its parent is unknown, pid 1 (init) or pid 0
// (kernel threads). Pid 1 is never visited.
//
// Walks are iterative and bounded. A chain longer than the hop limit, or
// one that revisits a pid, stops with UnknownUID and a *LoopError.
package ancestry
