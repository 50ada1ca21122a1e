package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/ywan0849/jsthermalcomfort/comfort"
)

// ObservationRow is one line of the input CSV.
type ObservationRow struct {
	Tdb float64 `csv:"tdb"` // 乾球温度, degree C | degree F
	Tr  float64 `csv:"tr"`  // 平均放射温度, degree C | degree F
	V   float64 `csv:"v"`   // 風速, m/s | fps
	Rh  float64 `csv:"rh"`  // 相対湿度, %
	Met float64 `csv:"met"` // 代謝量, met
	Clo float64 `csv:"clo"` // 着衣量, clo

	// 外部仕事, met. 列がない場合や空欄の場合は設定値を使う
	Wme *float64 `csv:"wme,omitempty"`
}

/*
観測データを読み込む。

Args

	filePath 観測データのファイルのパス

Returns

	観測データの行
*/
func readObservations(filePath string) ([]*ObservationRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open observations: %w", err)
	}
	defer file.Close()

	var rows []*ObservationRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parse observations: %w", err)
	}
	return rows, nil
}

// toBatch arranges the rows column-wise for the array operations.
// The wme column is only passed on when at least one row carries it;
// blank cells take defaultWme.
func toBatch(rows []*ObservationRow, defaultWme float64) comfort.BatchInput {
	n := len(rows)
	in := comfort.BatchInput{
		Tdb: make([]float64, n),
		Tr:  make([]float64, n),
		V:   make([]float64, n),
		Rh:  make([]float64, n),
		Met: make([]float64, n),
		Clo: make([]float64, n),
	}
	for i, r := range rows {
		in.Tdb[i] = r.Tdb
		in.Tr[i] = r.Tr
		in.V[i] = r.V
		in.Rh[i] = r.Rh
		in.Met[i] = r.Met
		in.Clo[i] = r.Clo
	}

	for i, r := range rows {
		if r.Wme == nil {
			continue
		}
		if in.Wme == nil {
			in.Wme = make([]float64, n)
			for j := range in.Wme {
				in.Wme[j] = defaultWme
			}
		}
		in.Wme[i] = *r.Wme
	}
	return in
}
