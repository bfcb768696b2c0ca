package app

import (
	"strings"

	"github.com/charlesng35/orgdesk/internal/cache"
	"github.com/charlesng35/orgdesk/internal/database"
)

// RedisClientConfig converts the application cache configuration into the cache package representation.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  strings.TrimSpace(c.Redis.Address),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TLS:      c.Redis.TLS,
		Timeout:  c.Redis.Timeout,
		Prefix:   c.Redis.Prefix,
	}
}

// DatabaseOpenConfig converts the database section into database.Open parameters.
func (c DatabaseConfig) DatabaseOpenConfig() database.Config {
	return database.Config{
		Driver:          strings.TrimSpace(c.Driver),
		Path:            strings.TrimSpace(c.Path),
		DSN:             strings.TrimSpace(c.DSN),
		Host:            strings.TrimSpace(c.Host),
		Port:            c.Port,
		Name:            strings.TrimSpace(c.Name),
		User:            strings.TrimSpace(c.Username),
		Password:        c.Password,
		Options:         c.Options,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

// ResolvedStore returns the concrete rate limit backend for the configured store.
func (c Config) ResolvedStore() string {
	switch c.RateLimit.Store {
	case RateStoreMemory, RateStoreRedis, RateStoreDatabase:
		return c.RateLimit.Store
	}
	if c.Cache.Redis.Enabled {
		return RateStoreRedis
	}
	return RateStoreMemory
}
