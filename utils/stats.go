package utils

import (
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// Stats for performance monitoring
type Stats struct {
	GenerationsPerSecond float64
	AveragePopulation    float64
	TotalGenerations     int
	StartTime            time.Time
	ActiveCells          int
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Update folds in one generation. generation is 1-based: the number of
// generations completed so far.
func (s *Stats) Update(generation int, population int, duration time.Duration) {
	s.TotalGenerations = generation
	s.ActiveCells = population
	if duration > 0 {
		s.GenerationsPerSecond = 1.0 / duration.Seconds()
	}

	// Simple moving average for population
	if s.TotalGenerations <= 1 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

// GenerationRecord is one row of the per-generation stats CSV
type GenerationRecord struct {
	Generation int     `csv:"generation"`
	Living     int     `csv:"living"`
	Density    float64 `csv:"density"`
	Hash       string  `csv:"hash"`
	StepMicros int64   `csv:"step_us"`
}

// StatsRecorder appends generation records as CSV. A nil recorder discards
// everything, so callers need not check whether stats output is enabled.
type StatsRecorder struct {
	w             io.Writer
	headerWritten bool
}

func NewStatsRecorder(w io.Writer) *StatsRecorder {
	if w == nil {
		return nil
	}
	return &StatsRecorder{w: w}
}

// Write appends one record, emitting the header before the first
func (r *StatsRecorder) Write(rec GenerationRecord) error {
	if r == nil {
		return nil
	}

	records := []GenerationRecord{rec}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.w); err != nil {
			return errors.Wrap(err, "[StatsRecorder.Write] writing header and record")
		}
		r.headerWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
		return errors.Wrap(err, "[StatsRecorder.Write] writing record")
	}
	return nil
}
