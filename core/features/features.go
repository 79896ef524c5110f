package features

import (
	"errors"
	"fmt"
)

// ErrEmptyFeatureSet is returned when a model declares no features.
var ErrEmptyFeatureSet = errors.New("feature set is empty")

// FeatureSet is the ordered list of feature names a model expects.
type FeatureSet struct {
	names []string
	index map[string]int
}

// NewFeatureSet validates names and builds a FeatureSet. Names must be
// non-empty and unique.
func NewFeatureSet(names []string) (FeatureSet, error) {
	if len(names) == 0 {
		return FeatureSet{}, ErrEmptyFeatureSet
	}
	idx := make(map[string]int, len(names))
	cp := make([]string, len(names))
	for i, n := range names {
		if n == "" {
			return FeatureSet{}, fmt.Errorf("feature %d: empty name", i)
		}
		if _, dup := idx[n]; dup {
			return FeatureSet{}, fmt.Errorf("feature %q declared twice", n)
		}
		idx[n] = i
		cp[i] = n
	}
	return FeatureSet{names: cp, index: idx}, nil
}

// Names returns a copy of the ordered feature names.
func (f FeatureSet) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Len returns the number of features.
func (f FeatureSet) Len() int { return len(f.names) }

// Position returns the column of name, or -1 if the set does not contain it.
func (f FeatureSet) Position(name string) int {
	if i, ok := f.index[name]; ok {
		return i
	}
	return -1
}
