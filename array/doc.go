// Package array provides dual-resident resizable element buffers: a host
// slice paired with a raw byte range in device memory.
//
// Arrays are the usual nested resource registered with a ManagedPtr: their
// ReplayCopy hook pushes the host contents to the device on every
// reference-count increment, and their Release hook frees both residencies.
//
// All device traffic goes through awaited device tasks; there is no
// background synchronization.
package array
