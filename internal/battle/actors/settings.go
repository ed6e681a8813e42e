package actors

import (
	"math/rand"
	"time"

	"Skirmish/internal/battle/app/port"
	"Skirmish/internal/battle/engine"
	"Skirmish/internal/shared/observability"
	"Skirmish/internal/shared/serverconfig"
	"Skirmish/modules/kit/logx"
)

const (
	defaultTickInterval = 50 * time.Millisecond
	defaultRetention    = time.Minute
)

// MatchSettings 每局共用的参数，来自 battle 配置段。
type MatchSettings struct {
	Engine           engine.Config
	TickInterval     time.Duration
	RebuildThreshold int
	MaxPlayers       int
	// Retention 对局结束后保留多久，期间仍可查询快照。
	Retention time.Duration
}

// SettingsFromConfig 用 battle 配置段覆盖 base，配置里的零值沿用 base。
func SettingsFromConfig(base MatchSettings, b serverconfig.BattleConfig) MatchSettings {
	s := base
	if b.MapWidth > 0 && b.MapHeight > 0 {
		s.Engine.Width = b.MapWidth
		s.Engine.Height = b.MapHeight
	}
	if b.ResourceCount > 0 {
		s.Engine.ResourceCount = b.ResourceCount
	}
	if b.StartingMoney > 0 {
		s.Engine.StartingMoney = b.StartingMoney
	}
	if b.TickInterval > 0 {
		s.TickInterval = b.TickInterval
	}
	if b.RebuildThreshold > 0 {
		s.RebuildThreshold = b.RebuildThreshold
	}
	if b.MaxPlayers > 0 {
		s.MaxPlayers = b.MaxPlayers
	}
	if b.MatchRetention > 0 {
		s.Retention = b.MatchRetention
	}
	return s
}

// FromCurrentConfig 每次调用都读 serverconfig.Current，配置热更新后新建的对局立即生效。
func FromCurrentConfig(base MatchSettings) func() MatchSettings {
	return func() MatchSettings {
		return SettingsFromConfig(base, serverconfig.Current().Battle)
	}
}

func (s MatchSettings) withDefaults() MatchSettings {
	if s.TickInterval <= 0 {
		s.TickInterval = defaultTickInterval
	}
	if s.MaxPlayers <= 0 {
		s.MaxPlayers = len(s.Engine.Palette)
	}
	if s.MaxPlayers <= 0 {
		s.MaxPlayers = 4
	}
	if s.Retention <= 0 {
		s.Retention = defaultRetention
	}
	return s
}

// Deps match actor 的外部依赖，都可以为空。
type Deps struct {
	Publisher     port.Publisher
	Reports       port.ReportRepository
	Metrics       *observability.BattleCollector
	Logger        logx.Logger
	ReportBackend string
	// NewRand 为空时每局用时间做种子。
	NewRand func() *rand.Rand
	// Now 为空时用 time.Now。
	Now func() time.Time
	// NextID 为空时用雪花 id。
	NextID func() (int64, error)
	// Settings 建局时取当局参数，为空时用 manager 构造时传入的 settings。
	Settings func() MatchSettings
}

func (d Deps) logger() logx.Logger {
	if d.Logger == nil {
		return logx.Nop()
	}
	return d.Logger
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
