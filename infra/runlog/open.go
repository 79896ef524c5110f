package runlog

import (
	"context"
	"fmt"

	"github.com/kilianp07/failpredict/config"
	corerunlog "github.com/kilianp07/failpredict/core/runlog"
)

// Open builds the run log store selected by cfg.
func Open(ctx context.Context, cfg config.RunLogConfig) (corerunlog.Store, error) {
	switch cfg.Backend {
	case "none":
		return corerunlog.NopStore{}, nil
	case "jsonl", "":
		if cfg.MaxSizeMB > 0 {
			return corerunlog.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		}
		return corerunlog.NewJSONLStore(cfg.Path)
	case "sqlite":
		return corerunlog.NewSQLiteStore(cfg.Path)
	case "postgres":
		return NewPostgresStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown run log backend %q", cfg.Backend)
	}
}
