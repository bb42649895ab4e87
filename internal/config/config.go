package config

import (
	"fmt"
	"time"
)

type Config struct {
	Site                SiteConfig          `yaml:"site"`
	HTTP                HttpConfig          `yaml:"http"`
	RobotsCacheTTLHours int                 `yaml:"robots_cache_ttl_hours"`
	RateLimit           RateLimitConfig     `yaml:"rate_limit"`
	Pipeline            PipelineConfig      `yaml:"pipeline"`
	Server              ServerConfig        `yaml:"server"`
	Observability       ObservabilityConfig `yaml:"observability"`
}

type SiteConfig struct {
	BaseURL string `yaml:"base_url"`
	Domain  string `yaml:"domain"`
}

type HttpConfig struct {
	UserAgent                 string `yaml:"user_agent"`
	ConnectTimeoutMS          int    `yaml:"connect_timeout_ms"`
	TotalTimeoutMS            int    `yaml:"total_timeout_ms"`
	MaxIdleConnections        int    `yaml:"max_idle_connections"`
	MaxIdleConnectionsPerHost int    `yaml:"max_idle_connections_per_host"`
	IdleConnectionTimeoutS    int    `yaml:"idle_connection_timeout_s"`
	AcceptLanguage            string `yaml:"accept_language"`
	RobotsEnabled             bool   `yaml:"robots_enabled"`
}

type RateLimitConfig struct {
	MinIntervalMS int `yaml:"min_interval_ms"`
}

type PipelineConfig struct {
	Needed      int `yaml:"needed"`
	MaxArticles int `yaml:"max_articles"`
	THMin       int `yaml:"th_min"`
	THMax       int `yaml:"th_max"`
}

type ServerConfig struct {
	Addr             string `yaml:"addr"`
	ShutdownTimeoutS int    `yaml:"shutdown_timeout_s"`
}

type ObservabilityConfig struct {
	LogPath       string `yaml:"log_path"`
	LogLevel      string `yaml:"log_level"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`
}

// Validation
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url is required")
	}
	if c.Site.Domain == "" {
		return fmt.Errorf("site.domain is required")
	}
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent is required")
	}
	if c.HTTP.ConnectTimeoutMS <= 0 {
		return fmt.Errorf("http.connect_timeout_ms must be > 0")
	}
	if c.HTTP.TotalTimeoutMS <= 0 {
		return fmt.Errorf("http.total_timeout_ms must be > 0")
	}
	if c.HTTP.RobotsEnabled && c.RobotsCacheTTLHours <= 0 {
		return fmt.Errorf("robots_cache_ttl_hours must be > 0 when http.robots_enabled is true")
	}
	if c.RateLimit.MinIntervalMS < 0 {
		return fmt.Errorf("rate_limit.min_interval_ms must be >= 0")
	}
	if c.Pipeline.Needed <= 0 {
		return fmt.Errorf("pipeline.needed must be > 0")
	}
	if c.Pipeline.MaxArticles <= 0 {
		return fmt.Errorf("pipeline.max_articles must be > 0")
	}
	if c.Pipeline.THMin <= 0 {
		return fmt.Errorf("pipeline.th_min must be > 0")
	}
	if c.Pipeline.THMax < c.Pipeline.THMin {
		return fmt.Errorf("pipeline.th_max must be >= pipeline.th_min")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ShutdownTimeoutS <= 0 {
		return fmt.Errorf("server.shutdown_timeout_s must be > 0")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	return nil
}

// Getters
func (c *Config) GetConnectTimeout() time.Duration {
	return time.Duration(c.HTTP.ConnectTimeoutMS) * time.Millisecond
}

func (c *Config) GetTotalTimeout() time.Duration {
	return time.Duration(c.HTTP.TotalTimeoutMS) * time.Millisecond
}

func (c *Config) GetIdleConnectionTimeout() time.Duration {
	return time.Duration(c.HTTP.IdleConnectionTimeoutS) * time.Second
}

func (c *Config) GetMinInterval() time.Duration {
	return time.Duration(c.RateLimit.MinIntervalMS) * time.Millisecond
}

func (c *Config) GetRobotsCacheTTL() time.Duration {
	return time.Duration(c.RobotsCacheTTLHours) * time.Hour
}

func (c *Config) GetShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutS) * time.Second
}
