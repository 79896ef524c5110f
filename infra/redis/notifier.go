// Package redis publishes prediction summaries over Redis pub/sub and keeps
// the latest summary per line under a plain key.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kilianp07/failpredict/core/factory"
	"github.com/kilianp07/failpredict/core/model"
	"github.com/kilianp07/failpredict/core/notify"
	"github.com/kilianp07/failpredict/infra/logger"
)

// Config defines the Redis connection and key layout.
type Config struct {
	// URL is a redis:// connection string.
	URL         string        `json:"url"`
	Prefix      string        `json:"prefix"`
	TTL         time.Duration `json:"ttl"`
	IncludeRows bool          `json:"include_rows"`
	PingTimeout time.Duration `json:"ping_timeout"`
}

type client interface {
	Publish(ctx context.Context, channel string, message interface{}) *goredis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Close() error
}

// Notifier publishes on <prefix>:<line> and stores the latest message under
// <prefix>:<line>:latest.
type Notifier struct {
	cli         client
	prefix      string
	ttl         time.Duration
	includeRows bool
	logger      logger.Logger
	now         func() time.Time
}

func init() {
	_ = notify.RegisterNotifier("redis", func(conf map[string]any) (notify.Notifier, error) {
		var cfg Config
		if err := factory.Decode(conf, &cfg); err != nil {
			return nil, err
		}
		return NewNotifier(cfg)
	})
}

// NewNotifier connects to Redis and verifies the connection with PING.
func NewNotifier(cfg Config) (*Notifier, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("redis: url is required")
	}
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	cli := goredis.NewClient(opts)
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return newNotifier(cli, cfg), nil
}

func newNotifier(cli client, cfg Config) *Notifier {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "failpredict"
	}
	return &Notifier{
		cli:         cli,
		prefix:      prefix,
		ttl:         cfg.TTL,
		includeRows: cfg.IncludeRows,
		logger:      logger.New("redis_notifier"),
		now:         time.Now,
	}
}

// Channel returns the pub/sub channel for a line.
func (n *Notifier) Channel(line string) string {
	if line == "" {
		line = "all"
	}
	return n.prefix + ":" + line
}

// Notify stores the latest summary then publishes it.
func (n *Notifier) Notify(ctx context.Context, sum model.Summary, rows []model.Row) error {
	data, err := json.Marshal(notify.NewMessage(sum, rows, n.includeRows, n.now()))
	if err != nil {
		return err
	}
	ch := n.Channel(sum.Line)
	if err := n.cli.Set(ctx, ch+":latest", data, n.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", ch, err)
	}
	receivers, err := n.cli.Publish(ctx, ch, data).Result()
	if err != nil {
		return fmt.Errorf("redis publish %s: %w", ch, err)
	}
	n.logger.Debugw("published summary", map[string]any{"channel": ch, "receivers": receivers})
	return nil
}

// Close closes the Redis client.
func (n *Notifier) Close() error { return n.cli.Close() }
