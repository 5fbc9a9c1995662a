// Package statistics accumulates per-player results across simulated
// hands, in big blinds so tables with different stakes are comparable.
package statistics

import (
	"math"
	"sort"
)

// Outcome is one player's result for a single completed hand.
type Outcome struct {
	NetBB          float64 // chips won or lost, in big blinds
	WentToShowdown bool
	TimedOut       bool // at least one turn defaulted by the clock
	PotBB          float64
}

// Series accumulates outcomes for one player.
type Series struct {
	Hands int

	sum    float64
	sum2   float64 // sum of squares, for variance
	values []float64

	ShowdownWins int // hands won at showdown
	FoldWins     int // hands won when everyone else folded
	showdownNet  float64
	foldNet      float64

	Timeouts int
	MaxPotBB float64
}

// Add incorporates one hand's outcome.
func (s *Series) Add(o Outcome) {
	s.Hands++
	s.sum += o.NetBB
	s.sum2 += o.NetBB * o.NetBB
	s.values = append(s.values, o.NetBB)

	if o.NetBB > 0 {
		if o.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.FoldWins++
		}
	}
	if o.WentToShowdown {
		s.showdownNet += o.NetBB
	} else {
		s.foldNet += o.NetBB
	}

	if o.TimedOut {
		s.Timeouts++
	}
	if o.PotBB > s.MaxPotBB {
		s.MaxPotBB = o.PotBB
	}
}

// Mean returns the average result in big blinds per hand.
func (s *Series) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.sum / float64(s.Hands)
}

// Variance returns the sample variance.
func (s *Series) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.sum2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation.
func (s *Series) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Series) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Series) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median per-hand result.
func (s *Series) Median() float64 {
	if len(s.values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the linearly interpolated value at p in [0, 1].
func (s *Series) Percentile(p float64) float64 {
	if len(s.values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Series) sorted() []float64 {
	sorted := make([]float64, len(s.values))
	copy(sorted, s.values)
	sort.Float64s(sorted)
	return sorted
}

// Balanced reports whether the showdown and fold-equity buckets sum back
// to the total, a cheap consistency check on the accounting.
func (s *Series) Balanced() bool {
	return math.Abs(s.sum-s.showdownNet-s.foldNet) <= 1e-6
}

// ShowdownNet returns the total big blinds won or lost at showdown.
func (s *Series) ShowdownNet() float64 {
	return s.showdownNet
}

// FoldNet returns the total big blinds won or lost without showdown.
func (s *Series) FoldNet() float64 {
	return s.foldNet
}
