package features

import "gonum.org/v1/gonum/mat"

// Encode one-hot encodes ids. Columns are the distinct identifiers in
// first-seen order and each row has a single 1 in its identifier's column.
func Encode(ids []string) ([]string, [][]float64) {
	cols := map[string]int{}
	var names []string
	for _, id := range ids {
		if _, ok := cols[id]; !ok {
			cols[id] = len(names)
			names = append(names, id)
		}
	}
	rows := make([][]float64, len(ids))
	for i, id := range ids {
		vec := make([]float64, len(names))
		vec[cols[id]] = 1
		rows[i] = vec
	}
	return names, rows
}

// Align encodes ids and reshapes the encoding to fs. The result has one row
// per id and exactly fs.Len() columns in fs order. Encoded columns that fs
// does not declare are discarded, so an unknown id yields an all-zero row.
//
// Align returns nil when ids is empty because a dense matrix cannot have zero
// rows.
func Align(ids []string, fs FeatureSet) *mat.Dense {
	if len(ids) == 0 || fs.Len() == 0 {
		return nil
	}
	names, encoded := Encode(ids)
	// target column for every encoded column, -1 when dropped
	target := make([]int, len(names))
	for j, n := range names {
		target[j] = fs.Position(n)
	}
	x := mat.NewDense(len(ids), fs.Len(), nil)
	for i, row := range encoded {
		for j, v := range row {
			if v == 0 || target[j] < 0 {
				continue
			}
			x.Set(i, target[j], v)
		}
	}
	return x
}
