// Package peermap provides a concurrent map from peer IDs to bounded
// sample windows. The map lock is held only for entry lookup and
// creation; each peer's window has its own lock, so records for
// different peers do not serialize on buffer mutation.
package peermap

import (
	"sync"
	"time"

	"github.com/eadventurous/p2p-node-stats/window"
)

type entry struct {
	mu  sync.Mutex
	buf *window.Buffer
}

// A Map holds one sample window per observed peer. Entries are created
// on first record and never removed; only samples within a window age
// out. The zero value is not usable, use NewMap.
type Map struct {
	mu       sync.RWMutex
	capacity int
	peers    map[string]*entry
}

// NewMap returns an empty Map whose windows retain the last capacity
// samples per peer.
func NewMap(capacity int) *Map {
	return &Map{
		capacity: capacity,
		peers:    make(map[string]*entry),
	}
}

// Record appends a sample to peerID's window, creating the window on
// first observation. Exactly one window is created per peer under
// racing first records; records for the same peer are serialized, in
// an unspecified order.
func (m *Map) Record(peerID string, d time.Duration) {
	e := m.getOrCreate(peerID)
	e.mu.Lock()
	e.buf.PushLossy(d)
	e.mu.Unlock()
}

func (m *Map) getOrCreate(peerID string) (e *entry) {
	m.mu.RLock()
	e = m.peers[peerID]
	m.mu.RUnlock()
	if e != nil {
		return
	}

	m.mu.Lock()
	if e = m.peers[peerID]; e == nil {
		e = &entry{buf: window.NewBuffer(m.capacity)}
		m.peers[peerID] = e
	}
	m.mu.Unlock()
	return
}

// Snapshot returns a copy of every peer's samples, oldest first, taken
// at call time. No lock is held across peers, so concurrent writers may
// be reflected in some entries and not others; each individual window
// is copied consistently.
func (m *Map) Snapshot() map[string][]time.Duration {
	m.mu.RLock()
	entries := make(map[string]*entry, len(m.peers))
	for id, e := range m.peers {
		entries[id] = e
	}
	m.mu.RUnlock()

	s := make(map[string][]time.Duration, len(entries))
	for id, e := range entries {
		e.mu.Lock()
		s[id] = e.buf.Samples()
		e.mu.Unlock()
	}
	return s
}

// PeerCount returns the number of peers with a window, including peers
// whose window is empty.
func (m *Map) PeerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.peers)
}
