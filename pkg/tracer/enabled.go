//go:build !notrace

package tracer

// Default build: reporting is live
const traceEnabled bool = true
