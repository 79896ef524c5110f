package prediction

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/failpredict/core/features"
	"github.com/kilianp07/failpredict/core/model"
)

// Model is a binary failure classifier. Implementations must be safe for
// concurrent use once constructed.
type Model interface {
	// Predict returns one label per row of x. x has exactly
	// len(FeatureNames()) columns, in that order.
	Predict(ctx context.Context, x *mat.Dense) ([]int, error)
	// FeatureNames returns the ordered feature names the model expects.
	FeatureNames() []string
	// Version identifies the model artifact.
	Version() string
}

// Labels validates raw model output and converts it to labels.
func Labels(out []int) ([]model.Label, error) {
	labels := make([]model.Label, len(out))
	for i, v := range out {
		l := model.Label(v)
		if !l.Valid() {
			return nil, &InvalidOutputError{Index: i, Value: v}
		}
		labels[i] = l
	}
	return labels, nil
}

// Predict aligns the station identifiers of records against the model's
// feature set, runs the model and returns one result per record, in input
// order. Only StationID is used as model input.
func Predict(ctx context.Context, m Model, records []model.StationRecord) ([]model.PredictionResult, error) {
	if len(records) == 0 {
		return nil, nil
	}
	fs, err := features.NewFeatureSet(m.FeatureNames())
	if err != nil {
		return nil, fmt.Errorf("model %s features: %w", m.Version(), err)
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.StationID
	}
	x := features.Align(ids, fs)
	out, err := m.Predict(ctx, x)
	if err != nil {
		return nil, fmt.Errorf("model %s predict: %w", m.Version(), err)
	}
	if len(out) != len(records) {
		return nil, fmt.Errorf("%w: %d labels for %d rows", ErrInvalidModelOutput, len(out), len(records))
	}
	labels, err := Labels(out)
	if err != nil {
		return nil, err
	}
	res := make([]model.PredictionResult, len(records))
	for i, r := range records {
		res[i] = model.PredictionResult{Record: r, Label: labels[i], Display: labels[i].String()}
	}
	return res, nil
}
