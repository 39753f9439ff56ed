package main

import (
	"flag"
	"fmt"
	"log"
	"log/syslog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eadventurous/p2p-node-stats/prof"
	"github.com/eadventurous/p2p-node-stats/report"
	"github.com/google/uuid"
)

// Defaults.
const (
	DEFAULT_LOAD_INTERVAL          = 10 * time.Millisecond
	DEFAULT_LOAD_PEERS             = 8
	DEFAULT_LOAD_WRITERS           = 4
	DEFAULT_LOG_ALL                = false
	DEFAULT_LOG_LOAD               = false
	DEFAULT_LOG_REPORT             = false
	DEFAULT_LOG_SYSLOG             = false
	DEFAULT_NODE_ID                = ""
	DEFAULT_REPORT_DIR             = ""
	DEFAULT_REPORT_INTERVAL        = 10 * time.Second
	DEFAULT_REPORT_ROTATE_INTERVAL = time.Duration(0)
	DEFAULT_RUN_DURATION           = time.Duration(0)
	DEFAULT_RUN_HTTP_SERVER        = ""
	DEFAULT_RUN_SHUTDOWN_TIMEOUT   = 15 * time.Second
	DEFAULT_TRACKER_WINDOW         = 100
)

func main() {
	var err error

	// start profiling, if enabled in build
	if prof.ProfileEnabled {
		defer prof.StartProfile("./p2p-node-stats.pprof").Stop()
	}

	var hostname string
	var defaultReportFile string
	if hostname, err = os.Hostname(); err != nil {
		defaultReportFile = "p2p-node-stats.txt"
	} else {
		defaultReportFile = "p2p-node-stats-" + hostname + ".txt"
	}

	var lip = flag.Duration("load-interval", DEFAULT_LOAD_INTERVAL,
		"time between records per load writer (units required)")
	var lpe = flag.Int("load-peers", DEFAULT_LOAD_PEERS,
		"number of synthetic peers to record samples for")
	var lwr = flag.Int("load-writers", DEFAULT_LOAD_WRITERS,
		"concurrent writer goroutines per peer")
	var lal = flag.Bool("log-all", DEFAULT_LOG_ALL, "enable all logging")
	var lgl = flag.Bool("log-load", DEFAULT_LOG_LOAD, "enable load driver logging")
	var lgr = flag.Bool("log-report", DEFAULT_LOG_REPORT, "enable report writer logging")
	var lgy = flag.Bool("log-syslog", DEFAULT_LOG_SYSLOG, "send logging to syslog")
	var nid = flag.String("node-id", DEFAULT_NODE_ID,
		"local node identifier used in the report header (default a random UUID)")
	var rdr = flag.String("report-dir", DEFAULT_REPORT_DIR,
		"write reports to a file in this directory (if unset, write to stdout)")
	var rfi = flag.String("report-file", defaultReportFile, "report filename")
	var riv = flag.Duration("report-interval", DEFAULT_REPORT_INTERVAL,
		"time between report writes (units required)")
	var rri = flag.Duration("report-rotate-interval", DEFAULT_REPORT_ROTATE_INTERVAL,
		"approximate interval on which to rotate report files (units required, default no rotation)")
	var rdu = flag.Duration("run-duration", DEFAULT_RUN_DURATION,
		"run duration (units required, default unlimited)")
	var rhs = flag.String("run-http-server", DEFAULT_RUN_HTTP_SERVER,
		"listen host/port of http server for the report (e.g. :8080 or localhost:8080)")
	var rst = flag.Duration("run-shutdown-timeout", DEFAULT_RUN_SHUTDOWN_TIMEOUT,
		"time to wait after signal for completion of shutdown")
	var twi = flag.Int("tracker-window", DEFAULT_TRACKER_WINDOW,
		"number of most recent samples retained per peer per metric")
	var ver = flag.Bool("version", false, "show version number")
	flag.Parse()

	if *ver {
		fmt.Printf("%s version %s\n", os.Args[0], VERSION)
		os.Exit(0)
	}

	if *lal {
		*lgl = true
		*lgr = true
	}

	if *lgy {
		var w *syslog.Writer
		if w, err = syslog.New(syslog.LOG_NOTICE, "p2p-node-stats"); err != nil {
			log.Fatalf("unable to open syslog (%s)", err)
		}
		log.Println("sending logging to syslog")
		log.SetOutput(w)
	}

	if *twi < 0 {
		log.Fatalf("invalid tracker window %d, must be >= 0", *twi)
	}

	if *lpe < 1 || *lwr < 1 {
		log.Fatalf("load peers and writers must be >= 1")
	}

	if *lip <= 0 || *riv <= 0 {
		log.Fatalf("load and report intervals must be > 0")
	}

	nodeID := *nid
	if nodeID == "" {
		nodeID = uuid.NewString()
	}

	cfg := &Config{
		report.Config{
			Dir:            *rdr,
			File:           *rfi,
			RotateInterval: *rri,
			Log:            *lgr,
		},
		nodeID,
		*twi,
		*lpe,
		*lwr,
		*lip,
		*riv,
		*rhs,
		*rdu,
		*rst,
		*lgl,
	}

	log.Printf("p2p-node-stats version %s started, node %s", VERSION, nodeID)

	run(cfg)
}

func run(cfg *Config) {
	var a *App
	var err error

	if a, err = NewApp(cfg); err != nil {
		log.Fatalf("initialization failed (%s)", err)
	}

	done := make(chan bool, 2)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	go func() {
		defer func() {
			done <- true
		}()
		for {
			sig := <-sigs
			log.Println("received signal:", sig)
			if sig == syscall.SIGUSR1 {
				log.Printf("current report\n" + a.Report())
			} else {
				if err := a.Stop(); err != nil {
					log.Printf("error on stop (%s)", err)
				}
				break
			}
		}
	}()

	go func() {
		defer func() {
			done <- true
		}()
		if err := a.Run(); err != nil {
			log.Fatalf("run failed (%s)", err)
		} else {
			log.Println("successful termination")
		}
	}()

	<-done
}
