package serverconfig

import (
	"os"
	"sync/atomic"
	"time"

	"Skirmish/internal/shared/config"
)

var current atomic.Pointer[Config]

// Load 加载配置并回填默认值，之后的文件变更会整体替换 Current 的返回值。
func Load(cfgName string) (Config, error) {
	conf, _, err := config.Load(cfgName, reload)
	if err != nil {
		return Config{}, err
	}
	reload(conf)
	conf = Current()
	// 环境变量优先；若未设置则回填配置中的 jwt_secret，兼容本地开发场景。
	if os.Getenv("JWT_SECRET") == "" && conf.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", conf.JWTSecret)
	}
	return conf, nil
}

// reload 回填默认值后整体替换，读方拿到的旧值不受影响。
func reload(next Config) {
	next.applyDefaults()
	current.Store(&next)
}

// Current 返回最近一次加载的配置，未加载时返回带默认值的零配置。
func Current() Config {
	if c := current.Load(); c != nil {
		return *c
	}
	var c Config
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	b := &c.Battle
	if b.TickInterval <= 0 {
		b.TickInterval = 50 * time.Millisecond
	}
	if b.MaxPlayers <= 0 {
		b.MaxPlayers = 4
	}
	if b.ReportBackend == "" {
		b.ReportBackend = "memory"
	}
	if b.RequestTimeout <= 0 {
		b.RequestTimeout = 2 * time.Second
	}
	if c.HTTPServer.Port == 0 {
		c.HTTPServer.Port = 8080
	}
	if c.MongoDB.Collection == "" {
		c.MongoDB.Collection = "match_reports"
	}
}
