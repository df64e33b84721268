package common

import "sync/atomic"

// BufferID is the opaque identity of a CPU-side buffer.
// It is the only key used to look up the buffer's device-side mirror.
// The zero value is never minted and marks an invalid id.
type BufferID uint64

// lastBufferID holds the most recently minted BufferID.
var lastBufferID atomic.Uint64

// NextBufferID mints a new BufferID.
// IDs increase monotonically for the lifetime of the process and are never reused,
// so a released device buffer can never be rebound to a different logical buffer.
//
// Returns:
//   - BufferID: a fresh, non-zero identity
func NextBufferID() BufferID {
	return BufferID(lastBufferID.Add(1))
}

// Valid reports whether the id was produced by NextBufferID.
func (id BufferID) Valid() bool {
	return id != 0
}
