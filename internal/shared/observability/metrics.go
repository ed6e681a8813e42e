package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BattleCollector 汇总对战服务的 Prometheus 指标。所有方法对 nil 接收者安全，
// 单测和本地单机模式可以不注入。
type BattleCollector struct {
	gatherer prometheus.Gatherer

	Ticks         prometheus.Counter
	TickDurations prometheus.Histogram
	Commands      *prometheus.CounterVec
	ActiveMatches prometheus.Gauge
	UnitsAlive    *prometheus.GaugeVec
	Reports       *prometheus.CounterVec
}

// NewBattleCollector 把指标注册到 reg，reg 为 nil 时用全局注册表。
func NewBattleCollector(reg prometheus.Registerer) (*BattleCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "battle_ticks_total",
		Help: "Total number of simulation steps executed across all matches.",
	}), "battle_ticks_total")
	if err != nil {
		return nil, err
	}
	durations, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "battle_tick_duration_seconds",
		Help:    "Wall time spent inside one simulation step.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
	}), "battle_tick_duration_seconds")
	if err != nil {
		return nil, err
	}
	commands, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "battle_commands_total",
		Help: "Player commands handled, labeled by command and result reason.",
	}, []string{"command", "result"}), "battle_commands_total")
	if err != nil {
		return nil, err
	}
	active, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "battle_matches_active",
		Help: "Matches currently being stepped.",
	}), "battle_matches_active")
	if err != nil {
		return nil, err
	}
	units, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "battle_units_alive",
		Help: "Living units per match.",
	}, []string{"match_id"}), "battle_units_alive")
	if err != nil {
		return nil, err
	}
	reports, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "battle_reports_total",
		Help: "Match reports archived, labeled by backend and result.",
	}, []string{"backend", "result"}), "battle_reports_total")
	if err != nil {
		return nil, err
	}

	return &BattleCollector{
		gatherer:      gatherer,
		Ticks:         ticks,
		TickDurations: durations,
		Commands:      commands,
		ActiveMatches: active,
		UnitsAlive:    units,
		Reports:       reports,
	}, nil
}

// Handler 暴露 /metrics。
func (c *BattleCollector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (c *BattleCollector) ObserveTick(d time.Duration) {
	if c == nil {
		return
	}
	c.Ticks.Inc()
	c.TickDurations.Observe(d.Seconds())
}

// CommandResult result 为 "ok" 或拒绝原因。
func (c *BattleCollector) CommandResult(command, result string) {
	if c == nil {
		return
	}
	c.Commands.WithLabelValues(command, result).Inc()
}

func (c *BattleCollector) MatchStarted() {
	if c == nil {
		return
	}
	c.ActiveMatches.Inc()
}

// MatchEnded 同时清掉该局的单位数序列，避免 label 无限增长。
func (c *BattleCollector) MatchEnded(matchID string) {
	if c == nil {
		return
	}
	c.ActiveMatches.Dec()
	c.UnitsAlive.DeleteLabelValues(matchID)
}

func (c *BattleCollector) SetUnitsAlive(matchID string, n int) {
	if c == nil {
		return
	}
	c.UnitsAlive.WithLabelValues(matchID).Set(float64(n))
}

func (c *BattleCollector) ReportSaved(backend string, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.Reports.WithLabelValues(backend, result).Inc()
}

// register 重复注册时复用已存在的同类型 collector。
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
