// Package mqtt publishes prediction summaries to an MQTT broker with Eclipse
// Paho.
package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/failpredict/core/factory"
	"github.com/kilianp07/failpredict/core/model"
	"github.com/kilianp07/failpredict/core/notify"
	"github.com/kilianp07/failpredict/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker      string      `json:"broker"`
	ClientID    string      `json:"client_id"`
	Username    string      `json:"username"`
	Password    string      `json:"password"`
	TopicPrefix string      `json:"topic_prefix"`
	QoS         byte        `json:"qos"`
	Retained    bool        `json:"retained"`
	IncludeRows bool        `json:"include_rows"`
	UseTLS      bool        `json:"use_tls"`
	ClientCert  string      `json:"client_cert"`
	ClientKey   string      `json:"client_key"`
	CABundle    string      `json:"ca_bundle"`
	LWTTopic    string      `json:"lwt_topic"`
	LWTPayload  string      `json:"lwt_payload"`
	LWTQoS      byte        `json:"lwt_qos"`
	LWTRetain   bool        `json:"lwt_retain"`
	MaxRetries  int         `json:"max_retries"`
	BackoffMS   int         `json:"backoff_ms"`
	TLSConfig   *tls.Config `json:"-"`
	// Logger defaults to a zerolog logger for the mqtt_notifier component.
	Logger logger.Logger `json:"-"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Notifier publishes one JSON message per prediction run on
// <prefix>/<line>/predictions.
type Notifier struct {
	cli         pahoClient
	prefix      string
	qos         byte
	retained    bool
	includeRows bool
	maxRetries  int
	backoff     time.Duration
	logger      logger.Logger
	now         func() time.Time
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

func init() {
	_ = notify.RegisterNotifier("mqtt", func(conf map[string]any) (notify.Notifier, error) {
		var cfg Config
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		return NewNotifier(cfg)
	})
}

// NewNotifier connects to the MQTT broker.
func NewNotifier(cfg Config) (*Notifier, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt: broker is required")
	}
	if cfg.QoS > 2 {
		return nil, fmt.Errorf("mqtt: invalid qos %d", cfg.QoS)
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = logger.New("mqtt_notifier")
	}
	n := &Notifier{
		prefix:      strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:         cfg.QoS,
		retained:    cfg.Retained,
		includeRows: cfg.IncludeRows,
		maxRetries:  cfg.MaxRetries,
		backoff:     time.Duration(cfg.BackoffMS) * time.Millisecond,
		logger:      log,
		now:         time.Now,
	}
	if n.prefix == "" {
		n.prefix = "failpredict"
	}
	if n.maxRetries <= 0 {
		n.maxRetries = 3
	}
	if n.backoff <= 0 {
		n.backoff = 100 * time.Millisecond
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	n.cli = c
	return n, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}
	return cfg, nil
}

// Topic returns the topic used for the given line.
func (n *Notifier) Topic(line string) string {
	if line == "" {
		line = "all"
	}
	return fmt.Sprintf("%s/%s/predictions", n.prefix, line)
}

// Notify publishes the run summary, retrying with exponential backoff.
func (n *Notifier) Notify(ctx context.Context, sum model.Summary, rows []model.Row) error {
	payload, err := json.Marshal(notify.NewMessage(sum, rows, n.includeRows, n.now()))
	if err != nil {
		return err
	}
	topic := n.Topic(sum.Line)
	var publishErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		token := n.cli.Publish(topic, n.qos, n.retained, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			n.logger.Infof("published summary to %s", topic)
			return nil
		}
		n.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt == n.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.backoff * time.Duration(1<<attempt)):
		}
	}
	return fmt.Errorf("mqtt publish %s: %w", topic, publishErr)
}

// Close gracefully closes the MQTT connection.
func (n *Notifier) Close() error {
	if n.cli != nil && n.cli.IsConnected() {
		n.cli.Disconnect(250)
	}
	return nil
}
