package config

import (
	"fmt"
	"slices"
	"strings"
)

var synchronousCommitModes = []string{"on", "off", "local", "remote_write", "remote_apply"}

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database.max_conns must be > 0 (got %d)", c.Database.MaxConns)
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns must be in 0..max_conns (got %d)", c.Database.MinConns)
	}

	if c.Cache.Enabled() && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0 when cache is enabled (got %v)", c.Cache.TTL)
	}

	if err := c.Import.validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

func (i *ImportConfig) validate() error {
	i.SynchronousCommit = strings.ToLower(strings.TrimSpace(i.SynchronousCommit))
	if !slices.Contains(synchronousCommitModes, i.SynchronousCommit) {
		return fmt.Errorf("synchronous_commit must be one of %v (got %q)", synchronousCommitModes, i.SynchronousCommit)
	}
	if strings.TrimSpace(i.MaintenanceWorkMem) == "" {
		return fmt.Errorf("maintenance_work_mem must not be empty")
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error (got %q)", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	return nil
}
