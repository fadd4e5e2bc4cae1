package suffstats

import (
	"fmt"
	"math"

	"gobayes/domain/core"
)

// LogNormalStats summarises strictly positive data on the log scale
type LogNormalStats struct {
	n       int
	meanLog float64
	sdLog   float64
}

// NewLogNormalStats validates n > 0 and sdLog >= 0
func NewLogNormalStats(n int, meanLog, sdLog float64) (LogNormalStats, error) {
	if n <= 0 {
		return LogNormalStats{}, core.NewPreconditionError("n", fmt.Sprintf("must be positive, got %d", n))
	}
	if math.IsNaN(meanLog) || math.IsInf(meanLog, 0) {
		return LogNormalStats{}, core.NewPreconditionError("meanLog", fmt.Sprintf("must be finite, got %g", meanLog))
	}
	if !(sdLog >= 0) || math.IsInf(sdLog, 0) {
		return LogNormalStats{}, core.NewPreconditionError("sdLog", fmt.Sprintf("must be non-negative and finite, got %g", sdLog))
	}
	return LogNormalStats{n: n, meanLog: meanLog, sdLog: sdLog}, nil
}

// LogNormalFromData log-transforms the data and summarises it. Every
// observation must be strictly positive.
func LogNormalFromData(data []float64) (LogNormalStats, error) {
	logs := make([]float64, len(data))
	for i, x := range data {
		if !(x > 0) {
			return LogNormalStats{}, core.NewPreconditionError("data", fmt.Sprintf("observation %d is %g, log-normal data must be strictly positive", i, x))
		}
		logs[i] = math.Log(x)
	}
	ns, err := NormalFromData(logs)
	if err != nil {
		return LogNormalStats{}, err
	}
	return NewLogNormalStats(len(data), ns.Mean(), ns.StdDev())
}

func (s LogNormalStats) N() int           { return s.n }
func (s LogNormalStats) MeanLog() float64 { return s.meanLog }
func (s LogNormalStats) SDLog() float64   { return s.sdLog }

// LogScale returns the equivalent NormalStats of the log-transformed data
func (s LogNormalStats) LogScale() NormalStats {
	return NormalStats{n: float64(s.n), mean: s.meanLog, stddev: s.sdLog}
}

func (LogNormalStats) Family() Family { return FamilyLogNormal }
func (LogNormalStats) isStatistics()  {}
