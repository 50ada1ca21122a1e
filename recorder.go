package main

import (
	"fmt"
	"io"
	"math"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ywan0849/jsthermalcomfort/comfort"
)

// ResultRow is one line of the output CSV.
type ResultRow struct {
	ObservationRow
	Set float64 `csv:"set"` // SET, degree C | degree F
	Ce  float64 `csv:"ce"`  // 冷却効果, K | degree F
	Pmv float64 `csv:"pmv"`
	Ppd float64 `csv:"ppd"` // %
}

// SetRow is one line of the output CSV of the set command.
type SetRow struct {
	ObservationRow
	Set float64 `csv:"set"` // SET, degree C | degree F
}

// Recorder collects the results of every observation.
type Recorder struct {
	rows []*ResultRow
}

func NewRecorder(n int) *Recorder {
	return &Recorder{rows: make([]*ResultRow, n)}
}

// record stores the result of observation i.
func (r *Recorder) record(i int, obs *ObservationRow, set, ce float64, pmv comfort.PmvPpdResult) {
	r.rows[i] = &ResultRow{
		ObservationRow: *obs,
		Set:            set,
		Ce:             ce,
		Pmv:            pmv.PMV,
		Ppd:            pmv.PPD,
	}
}

// write outputs the results as CSV.
func (r *Recorder) write(w io.Writer) error {
	if err := gocsv.Marshal(r.rows, w); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// writeSet outputs the observations and SET only.
func (r *Recorder) writeSet(w io.Writer) error {
	rows := make([]*SetRow, len(r.rows))
	for i, row := range r.rows {
		rows[i] = &SetRow{ObservationRow: row.ObservationRow, Set: row.Set}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Summary describes the SET column, NaN rows excluded.
type Summary struct {
	Count   int
	Invalid int
	Min     float64
	Max     float64
	Mean    float64
}

func (r *Recorder) summary() Summary {
	valid := make([]float64, 0, len(r.rows))
	for _, row := range r.rows {
		if !math.IsNaN(row.Set) {
			valid = append(valid, row.Set)
		}
	}

	s := Summary{
		Count:   len(r.rows),
		Invalid: len(r.rows) - len(valid),
		Min:     math.NaN(),
		Max:     math.NaN(),
		Mean:    math.NaN(),
	}
	if len(valid) == 0 {
		return s
	}
	s.Min = floats.Min(valid)
	s.Max = floats.Max(valid)
	s.Mean = stat.Mean(valid, nil)
	return s
}
