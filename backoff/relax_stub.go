// ════════════════════════════════════════════════════════════════════════════════════════════════
// CPU Relaxation - Fallback Implementation
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Cross-Platform Compatibility Layer
//
// Fallback for architectures without a dedicated spin-wait instruction, for
// builds with assembly disabled (noasm), or with cgo disabled (nocgo). The
// empty, inlined body compiles to nothing: zero overhead, same call shape
// on every target.
// ════════════════════════════════════════════════════════════════════════════════════════════════

//go:build (!amd64 && !arm64) || noasm || nocgo

package backoff

// cpuRelax is a no-op on targets without PAUSE/YIELD. The processor keeps
// spinning at full speed without a hint.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func cpuRelax() {}
