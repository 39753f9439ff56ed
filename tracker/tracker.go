// Package tracker records per-peer network timing samples and produces
// summary reports. A Tracker keeps a bounded window of ping round-trip
// times and per-byte transmission rates for each remote peer, and
// reports the windowed mean with a 95% confidence interval error margin.
package tracker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/eadventurous/p2p-node-stats/peermap"
	"github.com/eadventurous/p2p-node-stats/stats"
)

// ErrZeroBytes is returned by RecordTransmission for a zero byte count,
// which has no defined per-byte rate.
var ErrZeroBytes = errors.New("transmission byte count must be > 0")

// A Tracker is a concurrency-safe metrics tracker for one node. It is
// created once per process and shared by every component that observes
// network activity.
type Tracker struct {
	windowSize int
	nodeID     string
	pings      *peermap.Map
	rates      *peermap.Map
}

// New returns a Tracker that retains the last windowSize samples per
// peer per metric. nodeID identifies the local node in reports.
func New(windowSize int, nodeID string) *Tracker {
	return &Tracker{
		windowSize,
		nodeID,
		peermap.NewMap(windowSize),
		peermap.NewMap(windowSize),
	}
}

// NodeID returns the local node's identifier.
func (t *Tracker) NodeID() string {
	return t.nodeID
}

// WindowSize returns the number of samples retained per peer per
// metric.
func (t *Tracker) WindowSize() int {
	return t.windowSize
}

// RecordPing records a ping round-trip time to the given peer.
func (t *Tracker) RecordPing(peerID string, rtt time.Duration) {
	t.pings.Record(peerID, rtt)
}

// RecordTransmission records a transmission of byteCount bytes to the
// given peer that took elapsed, stored as the per-byte rate
// elapsed / byteCount. A byteCount of 0 returns ErrZeroBytes and
// records nothing.
func (t *Tracker) RecordTransmission(peerID string, elapsed time.Duration, byteCount uint32) (err error) {
	if byteCount == 0 {
		err = ErrZeroBytes
		return
	}
	t.rates.Record(peerID, elapsed/time.Duration(byteCount))
	return
}

// PingPeers returns the number of peers with ping data recorded.
func (t *Tracker) PingPeers() int {
	return t.pings.PeerCount()
}

// TransmissionPeers returns the number of peers with transmission data
// recorded.
func (t *Tracker) TransmissionPeers() int {
	return t.rates.PeerCount()
}

// Report returns the formatted statistics report: a header line with
// the node's own ID, then per-peer ping means and per-peer per-byte
// transmission rate means, each with its CI95 error margin. Peers are
// listed in sorted order. Peers with an empty window get an explicit
// "no data" line.
func (t *Tracker) Report() string {
	sb := &strings.Builder{}
	t.WriteReport(sb)
	return sb.String()
}

// WriteReport writes the report to w.
func (t *Tracker) WriteReport(w io.Writer) (err error) {
	if _, err = fmt.Fprintf(w, "%s\n", t.nodeID); err != nil {
		return
	}
	if _, err = fmt.Fprintf(w, "Ping mean for each peer:\n"); err != nil {
		return
	}
	if err = writeSection(w, t.pings.Snapshot(), "ping", ""); err != nil {
		return
	}
	if _, err = fmt.Fprintf(w, "Transmission rate mean by peer:\n"); err != nil {
		return
	}
	err = writeSection(w, t.rates.Snapshot(), "transmission", " per byte")
	return
}

// SaveReport writes the report to the named file, creating or
// truncating it.
func (t *Tracker) SaveReport(path string) (err error) {
	var f *os.File
	if f, err = os.Create(path); err != nil {
		return
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
	}()
	err = t.WriteReport(f)
	return
}

func writeSection(w io.Writer, snapshot map[string][]time.Duration, kind, suffix string) (err error) {
	peers := make([]string, 0, len(snapshot))
	for id := range snapshot {
		peers = append(peers, id)
	}
	sort.Strings(peers)

	for _, id := range peers {
		samples := snapshot[id]
		m, mok := stats.Mean(samples)
		e, eok := stats.ErrorWithCI95(samples)
		if mok && eok {
			_, err = fmt.Fprintf(w, "%s %s±%s%s\n", id, m, e, suffix)
		} else {
			_, err = fmt.Fprintf(w, "no %s data for peer %s\n", kind, id)
		}
		if err != nil {
			return
		}
	}
	return
}
