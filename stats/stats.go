// Package stats computes summary statistics over duration samples.
package stats

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// z-value for a 95 percent confidence interval
const zCI95 = 1.96

// Mean returns the arithmetic mean of the samples, and false if there
// are none.
func Mean(samples []time.Duration) (m time.Duration, ok bool) {
	if len(samples) == 0 {
		return
	}
	m = secondsToDuration(stat.Mean(seconds(samples), nil))
	ok = true
	return
}

// StdDev returns the population standard deviation of the samples
// (sum of squared deviations divided by n), and false if there are
// none. A single sample has a standard deviation of zero.
func StdDev(samples []time.Duration) (sd time.Duration, ok bool) {
	if len(samples) == 0 {
		return
	}
	sd = secondsToDuration(stat.PopStdDev(seconds(samples), nil))
	ok = true
	return
}

// ErrorWithCI95 returns the margin of error of the mean at 95%
// confidence, z * stddev / sqrt(n), and false if there are no samples.
// The estimate is statistically meaningful for n >= 30; smaller inputs
// still produce a value.
func ErrorWithCI95(samples []time.Duration) (e time.Duration, ok bool) {
	var sd time.Duration
	if sd, ok = StdDev(samples); !ok {
		return
	}
	e = secondsToDuration(zCI95 * stat.StdErr(sd.Seconds(), float64(len(samples))))
	return
}

func seconds(samples []time.Duration) (s []float64) {
	s = make([]float64, len(samples))
	for i := 0; i < len(samples); i++ {
		s[i] = samples[i].Seconds()
	}
	return
}

// secondsToDuration rounds to the nearest nanosecond so that float
// rounding in the estimators cannot shift a result across a
// nanosecond boundary.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
