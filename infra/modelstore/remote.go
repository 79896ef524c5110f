package modelstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/failpredict/auth"
	"github.com/kilianp07/failpredict/core/factory"
	"github.com/kilianp07/failpredict/core/prediction"
	"github.com/kilianp07/failpredict/infra/logger"
)

// RemoteConfig configures the "remote" backend. FeatureNames and Version are
// fetched from <url>/features when FeatureNames is empty.
type RemoteConfig struct {
	URL          string        `json:"url"`
	FeatureNames []string      `json:"feature_names"`
	Version      string        `json:"version"`
	Timeout      time.Duration `json:"timeout"`
	Auth         auth.Conf     `json:"auth"`
}

// RemoteModel delegates inference to an HTTP service.
type RemoteModel struct {
	baseURL  string
	client   *http.Client
	cred     *auth.ClientCred
	features []string
	version  string
	log      logger.Logger
}

type featuresResponse struct {
	Version      string   `json:"version"`
	FeatureNames []string `json:"feature_names"`
}

type predictRequest struct {
	FeatureNames []string    `json:"feature_names"`
	Rows         [][]float64 `json:"rows"`
}

type predictResponse struct {
	Labels []int `json:"labels"`
}

func init() {
	_ = prediction.RegisterModel("remote", func(conf map[string]any) (prediction.Model, error) {
		var cfg RemoteConfig
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout())
		defer cancel()
		return NewRemoteModel(ctx, cfg)
	})
}

func (c RemoteConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.Timeout
}

// NewRemoteModel builds a client for the inference service at cfg.URL.
func NewRemoteModel(ctx context.Context, cfg RemoteConfig) (*RemoteModel, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote model: url is required")
	}
	m := &RemoteModel{
		baseURL:  strings.TrimSuffix(cfg.URL, "/"),
		client:   &http.Client{Timeout: cfg.timeout()},
		features: cfg.FeatureNames,
		version:  cfg.Version,
		log:      logger.New("remote_model"),
	}
	if cfg.Auth.Enabled() {
		m.cred = auth.NewClientCred(cfg.Auth)
	}
	if len(m.features) == 0 {
		var fr featuresResponse
		if err := m.do(ctx, http.MethodGet, "/features", nil, &fr); err != nil {
			return nil, fmt.Errorf("remote model: fetch features: %w", err)
		}
		m.features = fr.FeatureNames
		if m.version == "" {
			m.version = fr.Version
		}
	}
	if len(m.features) == 0 {
		return nil, fmt.Errorf("%w: remote model exposes no features", ErrInvalidArtifact)
	}
	if m.version == "" {
		m.version = "remote"
	}
	return m, nil
}

// Predict posts the feature matrix and returns the service labels.
func (m *RemoteModel) Predict(ctx context.Context, x *mat.Dense) ([]int, error) {
	if x == nil {
		return nil, nil
	}
	r, _ := x.Dims()
	req := predictRequest{FeatureNames: m.features, Rows: make([][]float64, r)}
	for i := 0; i < r; i++ {
		req.Rows[i] = mat.Row(nil, i, x)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var resp predictResponse
	if err := m.do(ctx, http.MethodPost, "/predict", body, &resp); err != nil {
		return nil, err
	}
	m.log.Debugw("remote prediction", map[string]any{"rows": r, "version": m.version})
	return resp.Labels, nil
}

// FeatureNames implements prediction.Model.
func (m *RemoteModel) FeatureNames() []string {
	cp := make([]string, len(m.features))
	copy(cp, m.features)
	return cp
}

// Version implements prediction.Model.
func (m *RemoteModel) Version() string { return m.version }

// do sends the request and decodes a JSON answer into out. A 401 answer
// refreshes the token and retries once.
func (m *RemoteModel) do(ctx context.Context, method, path string, body []byte, out any) error {
	for attempt := 0; ; attempt++ {
		status, data, err := m.send(ctx, method, path, body)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized && m.cred != nil && attempt == 0 {
			if _, err := m.cred.ForceRefresh(ctx); err != nil {
				return err
			}
			continue
		}
		if status != http.StatusOK {
			return fmt.Errorf("%s %s: status %d: %s", method, path, status, strings.TrimSpace(string(data)))
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode: %w", method, path, err)
		}
		return nil
	}
}

func (m *RemoteModel) send(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, rd)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if m.cred != nil {
		if err := m.cred.SetAuthHeader(req); err != nil {
			return 0, nil, err
		}
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}
