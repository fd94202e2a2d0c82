// Package realuser determines the user a process really runs on behalf of by
// walking its ancestry, instead of trusting the immediate owner which sudo,
// privilege-dropping wrappers and container init shims may have changed.
//
// Usage:
//
//	uid, err := realuser.RUID(realuser.ByPID(pid))                       // deep
//	uid, err := realuser.RUID(realuser.ByOptions(realuser.Options{}))    // shallow, own pid
//	uid, err := realuser.RUID(realuser.ByOptions(realuser.Options{Deep: true}))
//
// Deep resolution returns the owner of the topmost ancestor below init.
// Shallow resolution climbs only while ownership stays the same and returns
// the owner at the first boundary.
//
// A uid that cannot be determined is reported as Unknown with a nil error.
// Errors are reserved for malformed requests (ErrInvalidRequest) and
// ancestry chains that exceed the loop guard (ErrLoopGuardExceeded).
//
// Attribute lookups are cached per pid for the lifetime of a Resolver. Use
// Reset to observe fresh process state.
package realuser
