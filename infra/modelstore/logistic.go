package modelstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/failpredict/core/factory"
	"github.com/kilianp07/failpredict/core/features"
	"github.com/kilianp07/failpredict/core/prediction"
)

// DefaultThreshold is used when an artifact does not set one.
const DefaultThreshold = 0.5

// ErrInvalidArtifact reports a model artifact that cannot be used.
var ErrInvalidArtifact = errors.New("invalid model artifact")

// Artifact is the serialized form of a logistic failure classifier.
type Artifact struct {
	Version      string    `json:"version" yaml:"version"`
	FeatureNames []string  `json:"feature_names" yaml:"feature_names"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
	Intercept    float64   `json:"intercept" yaml:"intercept"`
	Threshold    float64   `json:"threshold" yaml:"threshold"`
}

// LogisticModel scores rows with sigmoid(x·w + b) and labels a row as a
// failure when the probability reaches the threshold. It is read-only after
// construction.
type LogisticModel struct {
	version   string
	features  features.FeatureSet
	weights   *mat.VecDense
	intercept float64
	threshold float64
}

// LogisticConfig selects the artifact for the "logistic" backend. Artifact
// takes precedence over Path when both are set.
type LogisticConfig struct {
	Path     string    `json:"path"`
	Artifact *Artifact `json:"artifact"`
}

func init() {
	_ = prediction.RegisterModel("logistic", func(conf map[string]any) (prediction.Model, error) {
		var cfg LogisticConfig
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		if cfg.Artifact != nil {
			return NewLogisticModel(*cfg.Artifact)
		}
		if cfg.Path == "" {
			return nil, fmt.Errorf("logistic model: path is required")
		}
		return LoadLogisticModel(cfg.Path)
	})
}

// LoadLogisticModel reads a JSON or YAML artifact from path.
func LoadLogisticModel(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var a Artifact
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &a)
	case ".json":
		err = json.Unmarshal(data, &a)
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", ErrInvalidArtifact, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if a.Version == "" {
		a.Version = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return NewLogisticModel(a)
}

// NewLogisticModel validates a and builds the model.
func NewLogisticModel(a Artifact) (*LogisticModel, error) {
	fs, err := features.NewFeatureSet(a.FeatureNames)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if len(a.Coefficients) != fs.Len() {
		return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrInvalidArtifact, len(a.Coefficients), fs.Len())
	}
	th := a.Threshold
	if th == 0 {
		th = DefaultThreshold
	}
	if th <= 0 || th >= 1 {
		return nil, fmt.Errorf("%w: threshold %v outside (0,1)", ErrInvalidArtifact, a.Threshold)
	}
	w := make([]float64, len(a.Coefficients))
	copy(w, a.Coefficients)
	version := a.Version
	if version == "" {
		version = "logistic"
	}
	return &LogisticModel{
		version:   version,
		features:  fs,
		weights:   mat.NewVecDense(len(w), w),
		intercept: a.Intercept,
		threshold: th,
	}, nil
}

// Probabilities returns the failure probability of every row of x.
func (m *LogisticModel) Probabilities(x *mat.Dense) ([]float64, error) {
	if x == nil {
		return nil, nil
	}
	r, c := x.Dims()
	if c != m.features.Len() {
		return nil, fmt.Errorf("logistic model %s: got %d columns, want %d", m.version, c, m.features.Len())
	}
	var z mat.VecDense
	z.MulVec(x, m.weights)
	out := make([]float64, r)
	for i := range out {
		out[i] = sigmoid(z.AtVec(i) + m.intercept)
	}
	return out, nil
}

// Predict implements prediction.Model.
func (m *LogisticModel) Predict(ctx context.Context, x *mat.Dense) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	probs, err := m.Probabilities(x)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(probs))
	for i, p := range probs {
		if p >= m.threshold {
			out[i] = 1
		}
	}
	return out, nil
}

// FeatureNames implements prediction.Model.
func (m *LogisticModel) FeatureNames() []string { return m.features.Names() }

// Version implements prediction.Model.
func (m *LogisticModel) Version() string { return m.version }

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
