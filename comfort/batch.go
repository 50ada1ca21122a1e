package comfort

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BatchInput holds one sequence per varying parameter. All sequences must
// have the same length. Wme may be nil, in which case Params.Wme applies to
// every element.
type BatchInput struct {
	Tdb []float64
	Tr  []float64
	V   []float64
	Rh  []float64
	Met []float64
	Clo []float64
	Wme []float64
}

// Len validates the sequence lengths and returns the common length.
func (in BatchInput) Len() (int, error) {
	n := len(in.Tdb)
	type seq struct {
		name string
		l    int
	}
	lengths := []seq{
		{"tr", len(in.Tr)},
		{"v", len(in.V)},
		{"rh", len(in.Rh)},
		{"met", len(in.Met)},
		{"clo", len(in.Clo)},
	}
	if in.Wme != nil {
		lengths = append(lengths, seq{"wme", len(in.Wme)})
	}
	for _, x := range lengths {
		if x.l != n {
			return 0, fmt.Errorf("%w: len(tdb)=%d, len(%s)=%d", ErrLengthMismatch, n, x.name, x.l)
		}
	}
	return n, nil
}

func (in BatchInput) at(i int) Observation {
	return Observation{
		Tdb: in.Tdb[i],
		Tr:  in.Tr[i],
		V:   in.V[i],
		Rh:  in.Rh[i],
		Met: in.Met[i],
		Clo: in.Clo[i],
	}
}

// paramsAt returns p with the element's external work substituted.
func (in BatchInput) paramsAt(i int, p resolvedParams) resolvedParams {
	if in.Wme != nil {
		p.wme = in.Wme[i]
	}
	return p
}

// forEach calls fn for every index in [0, n). Each call must only write to
// its own index so the result does not depend on the schedule.
func forEach(n, workers int, fn func(i int)) error {
	if workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	return g.Wait()
}

// prepareBatch validates the structural inputs of an array operation.
func prepareBatch(in BatchInput, params Params) (int, resolvedParams, error) {
	p, err := params.resolve()
	if err != nil {
		return 0, resolvedParams{}, err
	}
	n, err := in.Len()
	if err != nil {
		return 0, resolvedParams{}, err
	}
	return n, p, nil
}

/*
SETを要素ごとに計算する。

	Args:
		in: 入力の系列
		params: 体の条件と単位系
		opts: 丸め、冷却効果、適用範囲の確認、並列数

	Returns:
		SET の系列

	Notes:
		適用範囲外の要素は NaN とし、他の要素には影響しない。
		系列の長さの不一致、不正な params、負の並列数はエラーとして返す。
*/
func SetTmpArray(in BatchInput, params Params, opts Options) ([]float64, error) {
	n, p, err := prepareBatch(in, params)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	err = forEach(n, opts.Workers, func(i int) {
		out[i] = setTmp(in.at(i), in.paramsAt(i, p), opts)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
