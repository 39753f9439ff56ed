package peermap

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordCreatesOneEntryPerPeer(t *testing.T) {
	m := NewMap(100)
	m.Record("2", 1*time.Second)
	m.Record("2", 2*time.Second)
	m.Record("3", 1*time.Second)
	require.Equal(t, 2, m.PeerCount())
	require.Len(t, m.Snapshot()["2"], 2)
}

func TestSnapshotCopiesSamples(t *testing.T) {
	m := NewMap(10)
	m.Record("a", 1*time.Second)
	s := m.Snapshot()
	s["a"][0] = 99 * time.Second
	require.Equal(t, []time.Duration{1 * time.Second}, m.Snapshot()["a"])
}

func TestZeroCapacityKeepsPeerVisible(t *testing.T) {
	m := NewMap(0)
	m.Record("a", 1*time.Second)
	require.Equal(t, 1, m.PeerCount())
	require.Empty(t, m.Snapshot()["a"])
}

func TestConcurrentFirstTouchSamePeer(t *testing.T) {
	m := NewMap(1000)

	numGoroutines := 50
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			m.Record("peer", 10*time.Millisecond)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, m.PeerCount())
	require.Len(t, m.Snapshot()["peer"], numGoroutines)
}

func TestConcurrentRecordSamePeerNoLostWrites(t *testing.T) {
	const capacity = 64
	m := NewMap(capacity)

	numGoroutines := 20
	numOps := 100
	fixed := 5 * time.Millisecond

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				m.Record("peer", fixed)
			}
		}()
	}
	wg.Wait()

	s := m.Snapshot()["peer"]
	require.Len(t, s, capacity) // min(N*M, capacity)
	for _, d := range s {
		require.Equal(t, fixed, d)
	}
}

func TestConcurrentRecordDistinctPeers(t *testing.T) {
	m := NewMap(100)

	numGoroutines := 32
	numOps := 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		id := fmt.Sprintf("peer%d", i)
		go func() {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				m.Record(id, time.Duration(j))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, numGoroutines, m.PeerCount())
	s := m.Snapshot()
	for i := 0; i < numGoroutines; i++ {
		require.Len(t, s[fmt.Sprintf("peer%d", i)], numOps)
	}
}

func TestConcurrentSnapshotWithWriters(t *testing.T) {
	m := NewMap(32)

	stop := make(chan bool)
	var wg sync.WaitGroup
	wg.Add(4)
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("peer%d", i)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					m.Record(id, time.Millisecond)
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		for _, samples := range m.Snapshot() {
			require.LessOrEqual(t, len(samples), 32)
			for _, d := range samples {
				require.Equal(t, time.Millisecond, d)
			}
		}
	}

	close(stop)
	wg.Wait()
}
