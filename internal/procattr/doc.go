// Package procattr reads per-process attributes from the operating system.
//
// Two attributes are exposed, each cached independently for the lifetime of
// the Reader:
//   - Owner(pid) - real user ID owning the process
//   - Parent(pid) - parent process ID
//
// Sources:
//   - ProcFS: stat(/proc/<pid>) for the owner, /proc/<pid>/status "PPid:" line
//     for the parent
//   - Gopsutil: github.com/shirou/gopsutil process lookups
//
// Failures never reach the caller. Any error (missing process, permission
// denied, malformed status record) is classified into an AttributeError,
// recorded for Err(), logged at debug level, and the Unknown sentinel is
// cached in place of the value.
//
// Cache entries are write-once: the first observed value for a pid wins,
// even if the process later exits or its pid is recycled. Forget and Reset
// are the only way to observe fresh state.
//
// Thread-safe with RWMutex for concurrent access.
package procattr
