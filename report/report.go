// Package report writes tracker reports to stdout or to a file, with
// optional interval-based rotation of the output file.
package report

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Config struct {
	Dir            string        // output directory (if unset, write to stdout)
	File           string        // output filename
	RotateInterval time.Duration // rotate output file on this interval (0 disables)
	Log            bool          // if true, logging is enabled
}

// A Writer is a safe-for-concurrent-use report sink. Each Write
// replaces nothing; reports are appended in arrival order, separated
// by a blank line, so rotated files hold a history of reports.
type Writer struct {
	Config
	writer flushWriter
	sync.Mutex
}

func Open(cfg Config) (w *Writer, err error) {
	var writer flushWriter
	if cfg.Dir != "" {
		if writer, err = newFileWriter(&cfg); err != nil {
			return
		}
	} else {
		if cfg.Log {
			log.Printf("report writer using stdout")
		}
		writer = bufio.NewWriter(os.Stdout)
	}

	w = &Writer{
		cfg,
		writer,
		sync.Mutex{},
	}

	return
}

// Write writes one report and flushes it to the sink.
func (w *Writer) Write(report string) (err error) {
	w.Lock()
	defer w.Unlock()

	t0 := time.Now()

	// rotate between reports only, so one report never spans files
	if r, ok := w.writer.(rotater); ok {
		if err = r.maybeRotate(); err != nil {
			return
		}
	}

	if _, err = io.WriteString(w.writer, report); err != nil {
		return
	}
	if _, err = io.WriteString(w.writer, "\n"); err != nil {
		return
	}
	if err = w.writer.Flush(); err != nil {
		return
	}

	if w.Log {
		log.Printf("report writer time=%s bytes=%d", time.Since(t0), len(report)+1)
	}

	return
}

func (w *Writer) Close() (err error) {
	w.Lock()
	defer w.Unlock()

	if c, ok := w.writer.(io.Closer); ok {
		err = c.Close()
	} else {
		err = w.writer.Flush()
	}

	return
}

// flushWriter is a Writer that can flush, implemented by fileWriter and
// naturally by bufio.Writer.
type flushWriter interface {
	io.Writer

	Flush() error
}

// rotater is implemented by sinks that support output file rotation.
type rotater interface {
	maybeRotate() error
}

// fileWriter is an io.Writer with interval-based file rotation.
type fileWriter struct {
	*Config
	path       string
	file       *os.File
	bfw        *bufio.Writer
	lastRotate time.Time
}

func newFileWriter(cfg *Config) (w *fileWriter, err error) {
	var di os.FileInfo
	if di, err = os.Stat(cfg.Dir); err != nil {
		return
	}
	if !di.IsDir() {
		err = fmt.Errorf("report directory '%s' not a directory", cfg.Dir)
		return
	}

	w = &fileWriter{
		cfg,
		filepath.Join(cfg.Dir, cfg.File),
		nil,
		nil,
		time.Time{},
	}

	err = w.open(false)

	return
}

func (w *fileWriter) Write(p []byte) (n int, err error) {
	n, err = w.bfw.Write(p)
	return
}

func (w *fileWriter) Flush() (err error) {
	err = w.bfw.Flush()
	return
}

func (w *fileWriter) Close() (err error) {
	if err = w.bfw.Flush(); err != nil {
		log.Printf("report writer error on flush (%s)", err)
	}

	err = w.file.Close()

	return
}

func (w *fileWriter) open(quiet bool) (err error) {
	if !quiet && w.Log {
		log.Printf("report writer opening output file %s", w.path)
	}

	if w.file, err = os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err != nil {
		return
	}

	w.bfw = bufio.NewWriter(w.file)

	return
}

func (w *fileWriter) maybeRotate() (err error) {
	if w.RotateInterval <= 0 {
		return
	}
	if w.lastRotate.IsZero() { // set last rotate time on first write
		w.lastRotate = time.Now()
		return
	}

	s := time.Since(w.lastRotate)
	if s > w.RotateInterval {
		if w.Log {
			log.Printf("report writer rotating %s after %s", w.path, s)
		}
		err = w.rotate()
	}

	return
}

func (w *fileWriter) rotate() (err error) {
	if err = w.bfw.Flush(); err != nil {
		return
	}

	if err = w.file.Close(); err != nil {
		return
	}

	var np string
	for i := 1; ; i++ {
		np = w.rotatedFilename(i)
		if _, e := os.Stat(np); os.IsNotExist(e) {
			break
		}
	}

	if w.Log {
		log.Printf("renaming %s to %s", w.path, np)
	}

	if err = os.Rename(w.path, np); err != nil {
		return
	}

	if err = w.open(true); err != nil {
		return
	}

	w.lastRotate = time.Now()

	return
}

func (w *fileWriter) rotatedFilename(n int) (rp string) {
	rp = w.path
	ext := filepath.Ext(rp)
	rp = strings.TrimSuffix(rp, ext)
	rp += "."
	rp += strconv.Itoa(n)
	rp += ext

	return
}
