package prediction

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// MockModel labels a row 1 when its active feature is listed in Failing.
// Output, when set, is returned verbatim instead.
type MockModel struct {
	Features []string
	Failing  map[string]bool
	Output   []int
	Err      error
	Name     string
}

// Predict implements Model.
func (m MockModel) Predict(_ context.Context, x *mat.Dense) ([]int, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Output != nil {
		cp := make([]int, len(m.Output))
		copy(cp, m.Output)
		return cp, nil
	}
	if x == nil {
		return nil, nil
	}
	r, c := x.Dims()
	out := make([]int, r)
	for i := 0; i < r; i++ {
		for j := 0; j < c && j < len(m.Features); j++ {
			if x.At(i, j) == 1 && m.Failing[m.Features[j]] {
				out[i] = 1
			}
		}
	}
	return out, nil
}

// FeatureNames implements Model.
func (m MockModel) FeatureNames() []string {
	cp := make([]string, len(m.Features))
	copy(cp, m.Features)
	return cp
}

// Version implements Model.
func (m MockModel) Version() string {
	if m.Name == "" {
		return "mock"
	}
	return m.Name
}
