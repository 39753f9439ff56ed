// Package window provides a fixed-capacity sample buffer with a lossy
// push policy: once the buffer is full, each new sample overwrites the
// oldest one, so the buffer always holds the most recent samples in
// arrival order.
package window

import (
	"time"
)

// A Buffer is a ring buffer of duration samples with a capacity fixed
// at construction. A Buffer is not safe for concurrent use; callers
// synchronize access (see package peermap).
type Buffer struct {
	data  []time.Duration
	pos   int // next write position
	count int
}

// NewBuffer returns a Buffer that retains the last capacity samples.
// A capacity of 0 is valid and yields a buffer that discards every
// push.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]time.Duration, capacity)}
}

// PushLossy appends d, evicting the oldest sample first if the buffer
// is full.
func (b *Buffer) PushLossy(d time.Duration) {
	if len(b.data) == 0 {
		return
	}
	b.data[b.pos] = d
	b.pos = (b.pos + 1) % len(b.data)
	if b.count < len(b.data) {
		b.count++
	}
}

// Len returns the number of samples currently retained.
func (b *Buffer) Len() int {
	return b.count
}

// Cap returns the buffer's capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Samples returns a copy of the retained samples, oldest first.
func (b *Buffer) Samples() (s []time.Duration) {
	if b.count == 0 {
		return
	}
	s = make([]time.Duration, b.count)
	if b.count < len(b.data) {
		copy(s, b.data[:b.count])
	} else {
		// full ring: oldest sample is at the write position
		n := copy(s, b.data[b.pos:])
		copy(s[n:], b.data[:b.pos])
	}
	return
}
