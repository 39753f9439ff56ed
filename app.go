package main

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/eadventurous/p2p-node-stats/report"
	"github.com/eadventurous/p2p-node-stats/tracker"
)

type Config struct {
	Report         report.Config // report writer config
	NodeID         string        // local node identifier
	WindowSize     int           // samples retained per peer per metric
	Peers          int           // number of synthetic peers
	Writers        int           // concurrent writers per peer
	RecordInterval time.Duration // time between records per writer
	ReportInterval time.Duration // time between report writes
	HTTPAddr       string        // listen address of report server
	Duration       time.Duration // limit on run time
	StopTimeout    time.Duration // time to wait on stop request
	LogLoad        bool          // if true, load driver logging is enabled
}

// An App drives a shared Tracker with synthetic peer activity, standing
// in for the network transport, and periodically writes its report.
type App struct {
	*Config
	tracker  *tracker.Tracker
	writer   *report.Writer
	dur      <-chan time.Time
	stop     chan bool
	done     chan bool
	stopOnce sync.Once
}

func NewApp(cfg *Config) (a *App, err error) {
	var w *report.Writer
	if w, err = report.Open(cfg.Report); err != nil {
		return
	}

	a = &App{cfg,
		tracker.New(cfg.WindowSize, cfg.NodeID),
		w,
		make(<-chan time.Time),
		make(chan bool),
		make(chan bool),
		sync.Once{},
	}

	return
}

func (a *App) Run() (err error) {
	defer close(a.done)
	defer func() {
		if e := a.writer.Close(); e != nil {
			log.Printf("error closing report writer (%s)", e)
		}
	}()

	if a.HTTPAddr != "" {
		go a.httpServer()
	}

	if a.Duration > 0 {
		a.dur = time.After(a.Duration)
	}

	var wg sync.WaitGroup
	for p := 0; p < a.Peers; p++ {
		for w := 0; w < a.Writers; w++ {
			wg.Add(1)
			go func(peer int) {
				defer wg.Done()
				a.drive(peer)
			}(p)
		}
	}

	tck := time.NewTicker(a.ReportInterval)
	defer tck.Stop()

	stopped := false
	for !stopped {
		select {
		case <-a.stop:
			stopped = true
		case <-a.dur:
			log.Printf("stopping after duration %s", a.Duration)
			stopped = true
		case <-tck.C:
			if err = a.writer.Write(a.tracker.Report()); err != nil {
				stopped = true
			}
		}
	}

	a.halt() // release driver goroutines on duration or write error
	wg.Wait()

	if err == nil {
		// final report so short runs still produce output
		err = a.writer.Write(a.tracker.Report())
	}

	return
}

// drive records synthetic ping and transmission observations for one
// peer until the app is stopped. Each peer has a distinct base latency
// so per-peer report lines differ.
func (a *App) drive(peer int) {
	id := peerID(peer)
	base := time.Duration(5+peer) * time.Millisecond
	rnd := rand.New(rand.NewSource(time.Now().UnixNano() + int64(peer)))

	tck := time.NewTicker(a.RecordInterval)
	defer tck.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-tck.C:
			rtt := base + time.Duration(rnd.Int63n(int64(base)))
			a.tracker.RecordPing(id, rtt)

			n := uint32(1 + rnd.Intn(64*1024))
			el := time.Duration(n) * time.Duration(50+rnd.Intn(200)) // ~50-250ns per byte
			if err := a.tracker.RecordTransmission(id, el, n); err != nil {
				log.Printf("error recording transmission (%s)", err)
			}

			if a.LogLoad {
				log.Printf("load peer=%s rtt=%s bytes=%d elapsed=%s", id, rtt, n, el)
			}
		}
	}
}

func (a *App) halt() {
	a.stopOnce.Do(func() {
		close(a.stop)
	})
}

func (a *App) Stop() (err error) {
	log.Printf("stopping (waiting up to %s for stop)", a.StopTimeout)
	a.halt()
	select {
	case <-a.done:
	case <-time.After(a.StopTimeout):
		err = fmt.Errorf("wait for stop timed out")
	}
	return
}

func (a *App) Report() string {
	return a.tracker.Report()
}

func (a *App) httpServer() {
	http.Handle("/", newRootHandler(a))
	log.Printf("starting http server on %s", a.HTTPAddr)
	if err := http.ListenAndServe(a.HTTPAddr, nil); err != nil {
		log.Printf("http server exiting due to error (%s)", err)
	}
}

func peerID(peer int) string {
	return "peer-" + strconv.Itoa(peer)
}
